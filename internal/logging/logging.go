// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"todo/internal/config"
)

// Rotation limits for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// New returns a logger for cfg and a func that releases its output.
//
// Level is warn by default, debug with --debug, and log_level overrides
// both. Output goes to errOut unless log_file is set, in which case it goes
// to a size-rotated file.
func New(cfg *config.Config, errOut io.Writer) (*log.Logger, func() error, error) {
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	if s := strings.TrimSpace(cfg.LogLevel); s != "" {
		parsed, err := log.ParseLevel(s)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log_level: %w", err)
		}
		level = parsed
	}

	logger := log.New()
	logger.SetLevel(level)

	closeFn := func() error { return nil }
	if cfg.LogFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		}
		logger.SetOutput(rotator)
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})
		closeFn = rotator.Close
	} else {
		logger.SetOutput(errOut)
		logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true, DisableColors: true})
	}

	return logger, closeFn, nil
}
