package sink

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chartNameRe = regexp.MustCompile(`^chart_[0-9a-f-]{36}\.png$`)

func TestFileSink_StoreURL(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileSink(root, "http://127.0.0.1:5000/")
	require.NoError(t, err)

	url, err := s.Store([]byte("png-bytes"), "chart.png")
	require.NoError(t, err)

	prefix := "http://127.0.0.1:5000/static/graphs/"
	require.True(t, strings.HasPrefix(url, prefix), url)
	name := strings.TrimPrefix(url, prefix)
	assert.Regexp(t, chartNameRe, name)

	data, err := os.ReadFile(filepath.Join(root, GraphsDir, name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestFileSink_StorePath(t *testing.T) {
	s, err := NewFileSink(t.TempDir(), "")
	require.NoError(t, err)

	p, err := s.Store([]byte("x"), "")
	require.NoError(t, err)
	assert.Equal(t, s.Dir(), filepath.Dir(p))
	assert.Regexp(t, chartNameRe, filepath.Base(p))
}

func TestFileSink_UniqueNames(t *testing.T) {
	s, err := NewFileSink(t.TempDir(), "")
	require.NoError(t, err)

	a, err := s.Store([]byte("a"), "chart.png")
	require.NoError(t, err)
	b, err := s.Store([]byte("b"), "chart.png")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestFileName(t *testing.T) {
	tests := []struct {
		suggested string
		prefix    string
		ext       string
	}{
		{"chart.png", "chart_", ".png"},
		{"segment.png", "segment_", ".png"},
		{"../../etc/passwd", "passwd_", ".png"},
		{"report", "report_", ".png"},
		{".png", "chart_", ".png"},
		{"", "chart_", ".png"},
	}
	for _, tt := range tests {
		t.Run(tt.suggested, func(t *testing.T) {
			got := fileName(tt.suggested)
			assert.True(t, strings.HasPrefix(got, tt.prefix), got)
			assert.Equal(t, tt.ext, filepath.Ext(got))
			assert.NotContains(t, got, "/")
		})
	}
}

func TestFileSink_Prune(t *testing.T) {
	s, err := NewFileSink(t.TempDir(), "")
	require.NoError(t, err)

	oldPath, err := s.Store([]byte("old"), "chart.png")
	require.NoError(t, err)
	newPath, err := s.Store([]byte("new"), "chart.png")
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	n, err := s.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(oldPath)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = os.Stat(newPath)
	assert.NoError(t, err)

	_, err = s.Prune(0)
	assert.Error(t, err)
}

func TestFileSink_PruneKeepsForeignFiles(t *testing.T) {
	s, err := NewFileSink(t.TempDir(), "")
	require.NoError(t, err)

	stored, err := s.Store([]byte("old"), "segment.png")
	require.NoError(t, err)
	foreign := []string{
		filepath.Join(s.Dir(), "notes.txt"),
		filepath.Join(s.Dir(), "chart_latest.png"),
		filepath.Join(s.Dir(), ".keep"),
	}
	past := time.Now().Add(-48 * time.Hour)
	for _, p := range foreign {
		require.NoError(t, os.WriteFile(p, []byte("keep"), 0o644))
		require.NoError(t, os.Chtimes(p, past, past))
	}
	require.NoError(t, os.Chtimes(stored, past, past))

	n, err := s.Prune(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = os.Stat(stored)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	for _, p := range foreign {
		_, err = os.Stat(p)
		assert.NoError(t, err, p)
	}
}

func TestStoredName(t *testing.T) {
	assert.True(t, storedName(fileName("chart.png")))
	assert.True(t, storedName(fileName("segment_b1c0.png")))
	assert.False(t, storedName("chart.png"))
	assert.False(t, storedName("chart_latest.png"))
	assert.False(t, storedName("_123e4567-e89b-12d3-a456-426614174000.png"))
	assert.False(t, storedName("chart_123e4567-e89b-12d3-a456-426614174000"))
}

func TestFileSink_PruneMissingDir(t *testing.T) {
	s, err := NewFileSink(t.TempDir(), "")
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(s.Dir()))

	n, err := s.Prune(time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, n)
}
