package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cellplot/cellplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     *float64
		expected  string
	}{
		{name: "precision 2", precision: 2, value: schema.Float(3.14159), expected: "3.14"},
		{name: "precision 0", precision: 0, value: schema.Float(3.14159), expected: "3"},
		{name: "negative value", precision: 3, value: schema.Float(-0.0421), expected: "-0.042"},
		{name: "missing reading", precision: 3, value: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, fmtNullable := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtNullable(tt.value))
			if tt.value != nil {
				assert.Equal(t, tt.expected, fmtFloat(*tt.value))
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"cell_id": "b1c0"}))
	assert.Equal(t, "{\n  \"cell_id\": \"b1c0\"\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"cell_id", "charge_policy"}, func(w *csv.Writer) error {
		return w.Write([]string{"b1c0", "3.6C(80%)-3.6C"})
	})
	require.NoError(t, err)
	assert.Equal(t, "cell_id,charge_policy\nb1c0,3.6C(80%)-3.6C\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"col"}, func(*csv.Writer) error {
		return assert.AnError
	})
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		err := writeWithFile("", func(io.Writer) error {
			called = true
			return nil
		}, "Wrote nothing")
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(w io.Writer) error {
			_, err := w.Write([]byte("cells"))
			return err
		}, "Wrote cells")
		require.NoError(t, err)
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "cells", string(content))
	})

	t.Run("writer error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Wrote cells")
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		err := writeWithFile("/nonexistent/path/file.txt", func(io.Writer) error { return nil }, "Wrote cells")
		require.Error(t, err)
	})
}
