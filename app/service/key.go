package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/streamfusion/keyservice/app/entity"
	"github.com/streamfusion/keyservice/app/repository"
)

var (
	ErrKeyNotFound  = errors.New("api key not found")
	ErrNameRequired = errors.New("name is required")
)

// Validation failure reasons reported by Validate.
const (
	ReasonNotFound = "not_found"
	ReasonInactive = "inactive"
)

type ValidationResult struct {
	Valid  bool
	Reason string
	Key    *entity.APIKey
}

type APIKeyRepository interface {
	Insert(ctx context.Context, key *entity.APIKey) error
	FindByKey(ctx context.Context, token string) (*entity.APIKey, error)
	FindByName(ctx context.Context, name string) ([]*entity.APIKey, error)
	ListAll(ctx context.Context) ([]*entity.APIKey, error)
	Deactivate(ctx context.Context, token string) (*entity.APIKey, error)
	Ping(ctx context.Context) error
}

type KeyService interface {
	Generate(ctx context.Context, name string, neverExpire bool) (*entity.APIKey, error)
	Validate(ctx context.Context, token string) (*ValidationResult, error)
	ListFor(ctx context.Context, name string) ([]*entity.APIKey, error)
	ListAll(ctx context.Context) ([]*entity.APIKey, error)
	Revoke(ctx context.Context, token string) (*entity.APIKey, error)
	Ping(ctx context.Context) error
}

type keyService struct {
	repo APIKeyRepository
}

func NewKeyService(repo APIKeyRepository) KeyService {
	return &keyService{repo: repo}
}

// Generate issues a fresh key under the given name. Names are never deduped:
// generating twice for the same name yields two independent keys.
func (s *keyService) Generate(ctx context.Context, name string, neverExpire bool) (*entity.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	key := &entity.APIKey{
		Key:          uuid.NewString(),
		Name:         name,
		IsActive:     true,
		NeverExpire:  neverExpire,
		TotalQueries: entity.UnlimitedQueries,
	}

	err := s.repo.Insert(ctx, key)
	if errors.Is(err, repository.ErrDuplicateKey) {
		// 128-bit collision; retry once with a new token.
		logrus.WithField("name", name).Warn("API key collision, regenerating")
		key.Key = uuid.NewString()
		err = s.repo.Insert(ctx, key)
	}
	if err != nil {
		return nil, err
	}

	logrus.WithField("name", name).Info("API key generated")
	return key, nil
}

func (s *keyService) Validate(ctx context.Context, token string) (*ValidationResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return &ValidationResult{Valid: false, Reason: ReasonNotFound}, nil
	}

	key, err := s.repo.FindByKey(ctx, token)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return &ValidationResult{Valid: false, Reason: ReasonNotFound}, nil
	}
	if !key.IsActive {
		return &ValidationResult{Valid: false, Reason: ReasonInactive, Key: key}, nil
	}

	return &ValidationResult{Valid: true, Key: key}, nil
}

func (s *keyService) ListFor(ctx context.Context, name string) ([]*entity.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	return s.repo.FindByName(ctx, name)
}

func (s *keyService) ListAll(ctx context.Context) ([]*entity.APIKey, error) {
	return s.repo.ListAll(ctx)
}

func (s *keyService) Revoke(ctx context.Context, token string) (*entity.APIKey, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrKeyNotFound
	}

	key, err := s.repo.Deactivate(ctx, token)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrKeyNotFound
	}

	logrus.WithField("name", key.Name).Info("API key revoked")
	return key, nil
}

func (s *keyService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
