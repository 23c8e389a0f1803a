package controller_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/streamfusion/keyservice/app/controller"
	"github.com/streamfusion/keyservice/app/repository"
	"github.com/streamfusion/keyservice/app/service"
)

var errTestStore = errors.New("store is down")

func newHealthControllerWithMock(t *testing.T) (*controller.HealthController, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.MonitorPingsOption(true),
	)
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	keyRepo := repository.NewAPIKeyRepository(db)
	keyService := service.NewKeyService(keyRepo)
	return controller.NewHealthController(keyService), mock, func() { _ = db.Close() }
}

func TestHealth_Healthy(t *testing.T) {
	healthController, mock, cleanup := newHealthControllerWithMock(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e := echo.New()
	ctx := e.NewContext(req, rec)

	mock.ExpectPing()

	if err := healthController.Health(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"healthy"`) {
		t.Fatalf("expected healthy status, got %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"database":"connected"`) {
		t.Fatalf("expected connected database, got %s", rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	healthController, mock, cleanup := newHealthControllerWithMock(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e := echo.New()
	ctx := e.NewContext(req, rec)

	mock.ExpectPing().WillReturnError(errTestStore)

	if err := healthController.Health(ctx); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"unhealthy"`) {
		t.Fatalf("expected unhealthy status, got %s", rec.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
