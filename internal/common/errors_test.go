package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name            string
		originalError   error
		message         string
		expectedMessage string
	}{
		{
			name:            "wrap simple error",
			originalError:   errors.New("original error"),
			message:         "wrapper message",
			expectedMessage: "wrapper message: original error",
		},
		{
			name:            "empty wrapper message",
			originalError:   errors.New("original error"),
			message:         "",
			expectedMessage: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedError := WrapError(tt.originalError, tt.message)
			assert.Equal(t, tt.expectedMessage, wrappedError.Error())
			assert.ErrorIs(t, wrappedError, tt.originalError)
		})
	}
}

func TestWrapErrorf(t *testing.T) {
	err := WrapErrorf(ErrInvalidConfiguration, "products file %s", "products.txt")
	assert.Equal(t, "products file products.txt: invalid configuration", err.Error())
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("port", -1, "must be positive")

	assert.Equal(t, "validation failed for field 'port': must be positive (value: -1)", err.Error())
	assert.Equal(t, "port", err.Field)
	assert.Equal(t, -1, err.Value)
}

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigurationError
		expected string
	}{
		{
			name:     "section and field",
			err:      NewConfigurationError("notification_config", "email.host", "required"),
			expected: "configuration error in section 'notification_config', field 'email.host': required",
		},
		{
			name:     "section only",
			err:      NewConfigurationError("scheduler_config", "", "invalid cron"),
			expected: "configuration error in section 'scheduler_config': invalid cron",
		},
		{
			name:     "reason only",
			err:      NewConfigurationError("", "", "broken"),
			expected: "configuration error: broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrInvalidConfiguration)
		})
	}
}

func TestErrorCollector(t *testing.T) {
	var ec ErrorCollector
	assert.Zero(t, ec.Len())
	assert.NoError(t, ec.Error())

	ec.Add(nil)
	ec.Add(errors.New("first"))
	ec.AddWithContext(ErrInvalidConfiguration, "lookup")

	require.Equal(t, 2, ec.Len())
	assert.ErrorIs(t, ec.Error(), ErrInvalidConfiguration)
	assert.Contains(t, ec.Error().Error(), "first")
	assert.Contains(t, ec.Error().Error(), "lookup: invalid configuration")
}

func TestFileManager_ReadFile(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	content, err := fm.ReadFile(path, DefaultFileReadOptions())
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	_, err = fm.ReadFile(path, FileReadOptions{MaxSize: 2})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = fm.ReadFile(dir, DefaultFileReadOptions())
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = fm.ReadFile(filepath.Join(dir, "missing.txt"), DefaultFileReadOptions())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileManager_EnsureDirectory(t *testing.T) {
	fm := NewFileManager(zerolog.Nop())
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, fm.EnsureDirectory(dir, 0755))
	assert.True(t, fm.FileExists(dir))
	require.NoError(t, fm.EnsureDirectory(dir, 0755))

	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, fm.EnsureDirectory(file, 0755))
}
