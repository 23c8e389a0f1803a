package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/streamfusion/keyservice/app/entity"
)

// ErrDuplicateKey is returned when an insert collides with an existing
// api_key value. Tokens carry 128 bits of randomness so this is practically
// unreachable, but the unique constraint surfaces it anyway.
var ErrDuplicateKey = errors.New("api key already exists")

const uniqueViolation = pq.ErrorCode("23505")

type APIKeyRepository struct {
	db *sql.DB
}

func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

func (r *APIKeyRepository) Insert(ctx context.Context, key *entity.APIKey) error {
	query := `
		INSERT INTO api_keys (api_key, name, is_active, never_expire, total_queries)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		key.Key,
		key.Name,
		key.IsActive,
		key.NeverExpire,
		key.TotalQueries,
	).Scan(&key.ID, &key.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *APIKeyRepository) FindByKey(ctx context.Context, token string) (*entity.APIKey, error) {
	query := `
		SELECT id, api_key, name, is_active, never_expire, total_queries, created_at
		FROM api_keys WHERE api_key = $1
	`
	key := &entity.APIKey{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&key.ID,
		&key.Key,
		&key.Name,
		&key.IsActive,
		&key.NeverExpire,
		&key.TotalQueries,
		&key.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return key, nil
}

func (r *APIKeyRepository) FindByName(ctx context.Context, name string) ([]*entity.APIKey, error) {
	query := `
		SELECT id, api_key, name, is_active, never_expire, total_queries, created_at
		FROM api_keys WHERE name = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAPIKeys(rows)
}

func (r *APIKeyRepository) ListAll(ctx context.Context) ([]*entity.APIKey, error) {
	query := `
		SELECT id, api_key, name, is_active, never_expire, total_queries, created_at
		FROM api_keys
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAPIKeys(rows)
}

// Deactivate flips is_active off and returns the stored row. Revoking a key
// that is already inactive returns the row unchanged.
func (r *APIKeyRepository) Deactivate(ctx context.Context, token string) (*entity.APIKey, error) {
	query := `
		UPDATE api_keys SET is_active = false
		WHERE api_key = $1
		RETURNING id, api_key, name, is_active, never_expire, total_queries, created_at
	`
	key := &entity.APIKey{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&key.ID,
		&key.Key,
		&key.Name,
		&key.IsActive,
		&key.NeverExpire,
		&key.TotalQueries,
		&key.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return key, nil
}

func (r *APIKeyRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func collectAPIKeys(rows *sql.Rows) ([]*entity.APIKey, error) {
	keys := make([]*entity.APIKey, 0)
	for rows.Next() {
		key := &entity.APIKey{}
		if err := rows.Scan(
			&key.ID,
			&key.Key,
			&key.Name,
			&key.IsActive,
			&key.NeverExpire,
			&key.TotalQueries,
			&key.CreatedAt,
		); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return keys, nil
}
