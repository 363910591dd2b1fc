package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\notes.txt`, "notes.txt"},
		{"", "document"},
		{"..", "document"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeFilename(tt.in), tt.in)
	}
}

func TestObjectKey(t *testing.T) {
	a := ObjectKey("a.pdf")
	b := ObjectKey("a.pdf")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "documents/"))
	assert.True(t, strings.HasSuffix(a, "/a.pdf"))
}

func TestLocalArchive_SaveAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	archive, err := NewLocalArchive(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	loc, err := archive.Save(ctx, "documents/x/a.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, archive.Delete(ctx, "documents/x/a.txt"))
	_, err = os.Stat(loc)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, archive.Delete(ctx, "documents/x/a.txt"))
}

func TestLocalArchive_RejectsEscapingKey(t *testing.T) {
	archive, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	_, err = archive.Save(context.Background(), "../outside.txt", strings.NewReader("x"), 1, "")
	assert.Error(t, err)
}
