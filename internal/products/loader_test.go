package products

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  Entry
		valid bool
	}{
		{name: "url only", line: "http://a", want: Entry{Line: "http://a", Target: "http://a"}, valid: true},
		{name: "url with email", line: "http://a|x@y.z", want: Entry{Line: "http://a|x@y.z", Target: "http://a", NotifyAddress: "x@y.z"}, valid: true},
		{name: "splits on first separator", line: "http://a|b|c", want: Entry{Line: "http://a|b|c", Target: "http://a", NotifyAddress: "b|c"}, valid: true},
		{name: "trims both parts", line: "  http://a | x@y.z  ", want: Entry{Line: "http://a | x@y.z", Target: "http://a", NotifyAddress: "x@y.z"}, valid: true},
		{name: "empty address", line: "http://a|", want: Entry{Line: "http://a|", Target: "http://a"}, valid: true},
		{name: "blank", line: "   ", valid: false},
		{name: "empty target", line: "|x@y.z", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoader_Load(t *testing.T) {
	content := "\ufeffhttp://a\n\nhttp://a\nhttp://b|x@y\n   \nhttp://b|x@y\r\nhttp://a|z@w\n|orphan@x\n  http://c  \n"

	entries, err := NewLoader(zerolog.Nop()).Load(writeList(t, content))
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{Line: "http://a", Target: "http://a"},
		{Line: "http://b|x@y", Target: "http://b", NotifyAddress: "x@y"},
		{Line: "http://a|z@w", Target: "http://a", NotifyAddress: "z@w"},
		{Line: "http://c", Target: "http://c"},
	}, entries)
	assert.False(t, entries[0].HasAddress())
	assert.True(t, entries[1].HasAddress())
}

func TestLoader_Load_NoTrailingNewline(t *testing.T) {
	entries, err := NewLoader(zerolog.Nop()).Load(writeList(t, "http://a\nhttp://b"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "http://b", entries[1].Target)
}

func TestLoader_Load_EmptyFile(t *testing.T) {
	entries, err := NewLoader(zerolog.Nop()).Load(writeList(t, ""))
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = NewLoader(zerolog.Nop()).Load(writeList(t, "\n  \n\t\n"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoader_Load_LongLine(t *testing.T) {
	long := "http://a/" + strings.Repeat("x", 200*1024)
	entries, err := NewLoader(zerolog.Nop()).Load(writeList(t, long+"\n"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, long, entries[0].Target)
}

func TestLoader_Load_Errors(t *testing.T) {
	loader := NewLoader(zerolog.Nop())

	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = loader.Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNotAFile)

	tooLong := strings.Repeat("x", maxLineSize+10)
	_, err = loader.Load(writeList(t, tooLong))
	assert.ErrorIs(t, err, ErrReadingFile)
}
