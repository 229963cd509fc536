package common

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
)

// ErrFileTooLarge is returned by ReadFile when the file exceeds the configured limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// FileReadOptions controls FileManager.ReadFile.
type FileReadOptions struct {
	MaxSize int64 // 0 means unlimited
}

// DefaultFileReadOptions returns options without a size limit.
func DefaultFileReadOptions() FileReadOptions {
	return FileReadOptions{}
}

// FileManager provides file operations with standardized error handling and logging
type FileManager struct {
	logger zerolog.Logger
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	return &FileManager{
		logger: logger.With().Str("component", "FileManager").Logger(),
	}
}

// FileExists checks if a file or directory exists
func (fm *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// ReadFile reads a whole regular file, honoring opts.MaxSize.
func (fm *FileManager) ReadFile(path string, opts FileReadOptions) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, WrapErrorf(err, "failed to stat file: %s", path)
	}
	if info.IsDir() {
		return nil, NewValidationError("path", path, "is a directory")
	}
	if opts.MaxSize > 0 && info.Size() > opts.MaxSize {
		return nil, WrapErrorf(ErrFileTooLarge, "%s (%d > %d bytes)", path, info.Size(), opts.MaxSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, WrapErrorf(err, "failed to open file: %s", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			fm.logger.Error().Err(cerr).Str("path", path).Msg("Failed to close file")
		}
	}()

	var r io.Reader = file
	if opts.MaxSize > 0 {
		r = io.LimitReader(file, opts.MaxSize)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, WrapErrorf(err, "failed to read file: %s", path)
	}
	return content, nil
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	if path == "" || path == "." {
		return nil
	}
	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return WrapError(err, "failed to create directory: "+path)
	}

	fm.logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}
