package products

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Errors returned by Load. They are wrapped with the file path.
var (
	ErrFileNotFound   = errors.New("product list not found")
	ErrFilePermission = errors.New("permission denied reading product list")
	ErrNotAFile       = errors.New("product list path is a directory")
	ErrReadingFile    = errors.New("error reading product list")
)

const (
	utf8BOM     = "\ufeff"
	maxLineSize = 1024 * 1024
)

// Loader reads product list files.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader creates a loader that logs under the ProductLoader component.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger.With().Str("component", "ProductLoader").Logger()}
}

// Load reads path and returns its unique entries in first-seen order.
// An empty file yields an empty list. Any failure to open or read the file is an error.
func (l *Loader) Load(path string) ([]Entry, error) {
	fileLogger := l.logger.With().Str("path", path).Logger()

	info, err := os.Stat(path)
	if err != nil {
		return nil, l.openError(fileLogger, path, err)
	}
	if info.IsDir() {
		fileLogger.Error().Msg("Product list path is a directory")
		return nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, l.openError(fileLogger, path, err)
	}
	defer func() { _ = file.Close() }()

	entries, err := l.parse(fileLogger, file)
	if err != nil {
		fileLogger.Error().Err(err).Msg("Error while scanning product list")
		return nil, fmt.Errorf("%w: %s: %v", ErrReadingFile, path, err)
	}

	if len(entries) == 0 {
		fileLogger.Warn().Msg("Product list contains no entries")
	}
	return entries, nil
}

func (l *Loader) openError(fileLogger zerolog.Logger, path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		fileLogger.Error().Err(err).Msg("Product list not found")
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	case errors.Is(err, os.ErrPermission):
		fileLogger.Error().Err(err).Msg("Permission denied reading product list")
		return fmt.Errorf("%w: %s", ErrFilePermission, path)
	default:
		fileLogger.Error().Err(err).Msg("Error opening product list")
		return fmt.Errorf("%w: %s: %v", ErrReadingFile, path, err)
	}
}

func (l *Loader) parse(fileLogger zerolog.Logger, r io.Reader) ([]Entry, error) {
	set := newEntrySet()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNumber := 0
	duplicates := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if lineNumber == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}

		entry, ok := ParseLine(line)
		if !ok {
			if strings.TrimSpace(line) != "" {
				fileLogger.Warn().Int("line_number", lineNumber).Str("line", strings.TrimSpace(line)).Msg("Line has no URL, skipping")
			}
			continue
		}
		if !set.add(entry) {
			duplicates++
			fileLogger.Debug().Int("line_number", lineNumber).Str("line", entry.Line).Msg("Duplicate line, skipping")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	fileLogger.Info().
		Int("lines_read", lineNumber).
		Int("entries", len(set.list())).
		Int("duplicates", duplicates).
		Msg("Product list loaded")
	return set.list(), nil
}
