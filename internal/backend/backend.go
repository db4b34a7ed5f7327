// Package backend opens the storage.KV selected by configuration.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"todo/internal/backend/file"
	"todo/internal/backend/rediskv"
	"todo/internal/backend/sqlite"
	"todo/internal/config"
	"todo/internal/storage"
)

// ErrUnknownBackend is returned for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown backend")

// Open returns the backend named by cfg.Backend. Backends that hold
// resources also implement io.Closer.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (storage.KV, error) {
	entry := logger.WithField("backend", cfg.Backend)

	switch cfg.Backend {
	case config.BackendFile, "":
		s, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open data dir: %w", err)
		}
		entry.WithField("dir", s.Dir()).Debug("opened file backend")
		return s, nil

	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.SQLiteFile())
		if err != nil {
			return nil, err
		}
		entry.WithField("path", s.Path()).Debug("opened sqlite backend")
		return s, nil

	case config.BackendRedis:
		s, err := rediskv.Dial(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, err
		}
		entry.WithField("prefix", cfg.RedisPrefix).Debug("opened redis backend")
		return s, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Backend)
	}
}
