package cmd

import (
	"database/sql"
	"net"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/streamfusion/keyservice/app/auth"
	"github.com/streamfusion/keyservice/app/controller"
	"github.com/streamfusion/keyservice/app/middleware"
	"github.com/streamfusion/keyservice/app/repository"
	"github.com/streamfusion/keyservice/app/service"
	"github.com/streamfusion/keyservice/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the HTTP (Echo) server exposing the API key endpoints.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	configureLogging(cfg)

	db, err := repository.Connect(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	startHTTPServer(cfg, db)
}

func configureLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})
}

func startHTTPServer(cfg *config.Config, db *sql.DB) {
	e := newRouter(cfg, db)
	defer e.Close()

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}

func newRouter(cfg *config.Config, db *sql.DB) *echo.Echo {
	keyRepo := repository.NewAPIKeyRepository(db)
	keyService := service.NewKeyService(keyRepo)
	gate := auth.NewGate(cfg.SecretKey)

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.TimeoutWithConfig(echomiddleware.TimeoutConfig{
		Timeout: cfg.RequestTimeout,
	}))

	keyController := controller.NewKeyController(keyService)
	healthController := controller.NewHealthController(keyService)
	secretMiddleware := middleware.NewSecretKeyMiddleware(gate)

	e.GET("/health", healthController.Health)

	admin := e.Group("/api/auth")
	admin.Use(secretMiddleware.RequireSecret)
	admin.POST("/new", keyController.New)
	admin.GET("/keys", keyController.Keys)
	admin.POST("/revoke", keyController.Revoke)
	admin.GET("/get_by_name/:name", keyController.GetByName)

	return e
}
