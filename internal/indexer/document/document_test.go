package document

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/inverted-index/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"single line", "Hello", []string{"Hello"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"blank last line", "a\n\n", []string{"a", ""}},
		{"only newline", "\n", []string{""}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"lone cr kept inside", "a\rb", []string{"a\rb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitLines(tt.text))
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("first line\nsecond line\nthird\n"), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, doc.Path())
	assert.Equal(t, 3, doc.LineCount())
	assert.Equal(t, []string{"second line", "third"}, doc.Lines(1, 3))
	assert.Empty(t, doc.Lines(3, 3))
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIO))
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var ioErr *apperrors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, path, ioErr.Path)
}

func TestLoadInvalidEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 'a'}, 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIO))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidEncoding))
}

func TestLoadDirectoryIsIOError(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIO))
}
