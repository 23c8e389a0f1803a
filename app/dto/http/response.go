package http

import (
	"strconv"
	"time"

	"github.com/streamfusion/keyservice/app/entity"
)

type NewKeyResponse struct {
	APIKey       string    `json:"api_key"`
	Name         string    `json:"name"`
	NeverExpires bool      `json:"never_expires"`
	TotalQueries string    `json:"total_queries"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewNewKeyResponse(key *entity.APIKey) *NewKeyResponse {
	return &NewKeyResponse{
		APIKey:       key.Key,
		Name:         key.Name,
		NeverExpires: key.NeverExpire,
		TotalQueries: formatTotalQueries(key.TotalQueries),
		CreatedAt:    key.CreatedAt,
	}
}

type KeyResponse struct {
	APIKey       string    `json:"api_key"`
	Name         string    `json:"name"`
	IsActive     bool      `json:"is_active"`
	NeverExpire  bool      `json:"never_expire"`
	TotalQueries string    `json:"total_queries"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewKeyResponseList(keys []*entity.APIKey) []*KeyResponse {
	out := make([]*KeyResponse, 0, len(keys))
	for _, key := range keys {
		out = append(out, &KeyResponse{
			APIKey:       key.Key,
			Name:         key.Name,
			IsActive:     key.IsActive,
			NeverExpire:  key.NeverExpire,
			TotalQueries: formatTotalQueries(key.TotalQueries),
			CreatedAt:    key.CreatedAt,
		})
	}
	return out
}

type KeysResponse struct {
	Keys []*KeyResponse `json:"keys"`
}

type RevokeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func formatTotalQueries(total int64) string {
	if total == entity.UnlimitedQueries {
		return "unlimited"
	}
	return strconv.FormatInt(total, 10)
}
