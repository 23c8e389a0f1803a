package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	httpdto "github.com/streamfusion/keyservice/app/dto/http"
	"github.com/streamfusion/keyservice/app/service"
)

type HealthController struct {
	keyService service.KeyService
}

func NewHealthController(keyService service.KeyService) *HealthController {
	return &HealthController{keyService: keyService}
}

// Health is the only unauthenticated route. It reports whether a key store
// connection can be acquired, nothing more.
func (c *HealthController) Health(ctx echo.Context) error {
	if err := c.keyService.Ping(ctx.Request().Context()); err != nil {
		logrus.WithError(err).Error("Health check failed")
		return ctx.JSON(http.StatusServiceUnavailable, httpdto.HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
		})
	}

	return ctx.JSON(http.StatusOK, httpdto.HealthResponse{
		Status:   "healthy",
		Database: "connected",
	})
}
