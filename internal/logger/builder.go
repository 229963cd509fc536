package logger

import (
	"io"
	stdlog "log"

	"github.com/aleister1102/dealnotifier/internal/common"
	"github.com/aleister1102/dealnotifier/internal/config"
	"github.com/rs/zerolog"
)

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	config        LoggerConfig
	factory       *WriterFactory
	consoleOutput io.Writer
	setGlobals    bool
}

// NewLoggerBuilder creates a new logger builder
func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		config:     DefaultLoggerConfig(),
		factory:    NewWriterFactory(),
		setGlobals: true,
	}
}

// WithConfig sets the logger configuration from the config file section.
func (lb *LoggerBuilder) WithConfig(cfg config.LogConfig) *LoggerBuilder {
	lb.config = FromLogConfig(cfg)
	return lb
}

// WithLoggerConfig sets an already converted configuration.
func (lb *LoggerBuilder) WithLoggerConfig(cfg LoggerConfig) *LoggerBuilder {
	lb.config = cfg
	return lb
}

// WithConsoleOutput redirects console output, stderr by default.
func (lb *LoggerBuilder) WithConsoleOutput(out io.Writer) *LoggerBuilder {
	lb.consoleOutput = out
	return lb
}

// WithoutGlobals leaves zerolog's global level and the standard log package untouched.
func (lb *LoggerBuilder) WithoutGlobals() *LoggerBuilder {
	lb.setGlobals = false
	return lb
}

// Build creates the logger instance
func (lb *LoggerBuilder) Build() (*Logger, error) {
	if err := lb.validateConfig(); err != nil {
		return nil, err
	}

	writers, err := lb.createWriters()
	if err != nil {
		return nil, err
	}
	if len(writers) == 0 {
		return nil, common.NewError("no output writers configured")
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lb.config.Level).
		With().
		Timestamp().
		Logger()

	if lb.setGlobals {
		zerolog.SetGlobalLevel(lb.config.Level)
		stdlog.SetOutput(zl)
		stdlog.SetFlags(0)
	}

	return &Logger{zerolog: zl, config: lb.config}, nil
}

func (lb *LoggerBuilder) validateConfig() error {
	if lb.config.EnableFile && lb.config.FilePath == "" {
		return common.NewValidationError("file_path", lb.config.FilePath, "file path required when file logging enabled")
	}
	if lb.config.EnableFile && lb.config.MaxSizeMB <= 0 {
		return common.NewValidationError("max_size_mb", lb.config.MaxSizeMB, "max size must be positive")
	}
	return nil
}

func (lb *LoggerBuilder) createWriters() ([]io.Writer, error) {
	var writers []io.Writer

	if lb.config.EnableConsole {
		writers = append(writers, lb.factory.CreateConsoleWriter(lb.config.Format, lb.consoleOutput))
	}

	if lb.config.EnableFile {
		fileWriter, err := lb.factory.CreateFileWriter(lb.config)
		if err != nil {
			return nil, common.WrapErrorf(err, "failed to prepare log file '%s'", lb.config.FilePath)
		}
		writers = append(writers, fileWriter)
	}

	return writers, nil
}
