package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type NewKeyRequest struct {
	Name         string `json:"name" query:"name"`
	NeverExpires *bool  `json:"never_expires" query:"never_expires"`
}

func NewNewKeyRequestFromContext(ctx echo.Context) (*NewKeyRequest, error) {
	var body NewKeyRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	// Callers may pass parameters in the query string instead of a body.
	// Echo only binds query params on GET/DELETE/HEAD, so POST needs the
	// fallback spelled out.
	if body.Name == "" {
		body.Name = ctx.QueryParam("name")
	}
	if body.NeverExpires == nil {
		if raw := ctx.QueryParam("never_expires"); raw != "" {
			if parsed, err := strconv.ParseBool(raw); err == nil {
				body.NeverExpires = &parsed
			}
		}
	}

	return &body, nil
}

func (r *NewKeyRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}

	return nil
}

// GetNeverExpires defaults to true when the caller did not set the field;
// no variant of the source system ever issues an expiring key.
func (r *NewKeyRequest) GetNeverExpires() bool {
	if r.NeverExpires == nil {
		return true
	}
	return *r.NeverExpires
}

type RevokeRequest struct {
	APIKey string `json:"api_key" query:"api_key"`
}

func NewRevokeRequestFromContext(ctx echo.Context) (*RevokeRequest, error) {
	var body RevokeRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	if body.APIKey == "" {
		body.APIKey = ctx.QueryParam("api_key")
	}

	return &body, nil
}

func (r *RevokeRequest) Validate() error {
	if strings.TrimSpace(r.APIKey) == "" {
		return errors.New("api_key is required")
	}

	return nil
}
