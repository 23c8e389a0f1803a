package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/streamfusion/keyservice/app/auth"
)

// HeaderSecretKey is the header carrying the shared admin secret.
const HeaderSecretKey = "secret-key"

type SecretKeyMiddleware struct {
	gate *auth.Gate
}

func NewSecretKeyMiddleware(gate *auth.Gate) *SecretKeyMiddleware {
	return &SecretKeyMiddleware{gate: gate}
}

// RequireSecret rejects the request before any store access when the
// secret-key header does not match. The body never hints how close the
// provided value was.
func (m *SecretKeyMiddleware) RequireSecret(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Let CORS preflight pass.
		if c.Request().Method == http.MethodOptions {
			return next(c)
		}

		provided := strings.TrimSpace(c.Request().Header.Get(HeaderSecretKey))
		if !m.gate.Authenticate(provided) {
			logrus.Debug("Rejected request with missing or invalid secret-key header")
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "unauthorized",
			})
		}

		return next(c)
	}
}
