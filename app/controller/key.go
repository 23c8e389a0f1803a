package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	httpdto "github.com/streamfusion/keyservice/app/dto/http"
	"github.com/streamfusion/keyservice/app/service"
)

type KeyController struct {
	keyService service.KeyService
}

func NewKeyController(keyService service.KeyService) *KeyController {
	return &KeyController{keyService: keyService}
}

func (c *KeyController) New(ctx echo.Context) error {
	req, err := httpdto.NewNewKeyRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind new key request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	key, err := c.keyService.Generate(ctx.Request().Context(), req.Name, req.GetNeverExpires())
	if err != nil {
		if errors.Is(err, service.ErrNameRequired) {
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
		}
		logrus.WithError(err).WithField("name", req.Name).Error("API key generation failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: err.Error()})
	}

	return ctx.JSON(http.StatusCreated, httpdto.NewNewKeyResponse(key))
}

func (c *KeyController) Keys(ctx echo.Context) error {
	keys, err := c.keyService.ListAll(ctx.Request().Context())
	if err != nil {
		logrus.WithError(err).Error("API key listing failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: err.Error()})
	}

	return ctx.JSON(http.StatusOK, httpdto.KeysResponse{Keys: httpdto.NewKeyResponseList(keys)})
}

func (c *KeyController) Revoke(ctx echo.Context) error {
	req, err := httpdto.NewRevokeRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind revoke request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	key, err := c.keyService.Revoke(ctx.Request().Context(), req.APIKey)
	if err != nil {
		if errors.Is(err, service.ErrKeyNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "api key not found"})
		}
		logrus.WithError(err).Error("API key revocation failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: err.Error()})
	}

	return ctx.JSON(http.StatusOK, httpdto.RevokeResponse{
		Success: true,
		Message: "api key for " + key.Name + " revoked",
	})
}

func (c *KeyController) GetByName(ctx echo.Context) error {
	name := ctx.Param("name")

	keys, err := c.keyService.ListFor(ctx.Request().Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrNameRequired) {
			return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
		}
		logrus.WithError(err).WithField("name", name).Error("API key lookup by name failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: err.Error()})
	}

	return ctx.JSON(http.StatusOK, httpdto.NewKeyResponseList(keys))
}
