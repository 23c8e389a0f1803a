package repository

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/streamfusion/keyservice/config"
)

// ErrStoreUnavailable is returned once every connection attempt has been
// exhausted.
var ErrStoreUnavailable = errors.New("key store unavailable")

// Connect opens the database and pings it, retrying a fixed number of times
// with a fixed delay between attempts. No backoff, no jitter.
func Connect(cfg *config.Config) (*sql.DB, error) {
	attempts := cfg.DBConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open("postgres", cfg.DSN())
		if err == nil {
			if err = db.Ping(); err == nil {
				logrus.Info("Database connection established")
				return db, nil
			}
			db.Close()
		}
		lastErr = err

		logrus.WithError(err).WithFields(logrus.Fields{
			"attempt":      attempt,
			"max_attempts": attempts,
		}).Error("Database connection failed")

		if attempt < attempts {
			logrus.WithField("delay", cfg.DBConnectDelay.String()).Info("Retrying database connection")
			time.Sleep(cfg.DBConnectDelay)
		}
	}

	if lastErr != nil {
		return nil, errors.Join(ErrStoreUnavailable, lastErr)
	}
	return nil, ErrStoreUnavailable
}
