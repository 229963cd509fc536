package logger

import (
	"github.com/aleister1102/dealnotifier/internal/config"
	"github.com/rs/zerolog"
)

// Logger pairs a zerolog instance with the configuration it was built from.
type Logger struct {
	zerolog zerolog.Logger
	config  LoggerConfig
}

// GetZerolog returns the underlying zerolog instance
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zerolog
}

// Config returns the effective configuration.
func (l *Logger) Config() LoggerConfig {
	return l.config
}

// New builds the process logger from the log section of the config file.
func New(cfg config.LogConfig) (zerolog.Logger, error) {
	l, err := NewLoggerBuilder().WithConfig(cfg).Build()
	if err != nil {
		return zerolog.Logger{}, err
	}
	return *l.GetZerolog(), nil
}

// WithRun returns a child logger tagged with a run identifier.
func WithRun(base zerolog.Logger, runID string) zerolog.Logger {
	return base.With().Str("run_id", runID).Logger()
}
