package text

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leaflet.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{"txt"}, New().Extensions())
}

func TestOpen_Pages(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"single page", "Aspirin", []string{"Aspirin"}},
		{"form feeds", "one\ftwo\fthree", []string{"one", "two", "three"}},
		{"trailing form feed", "one\ftwo\f", []string{"one", "two"}},
		{"empty file", "", []string{""}},
		{"empty middle page", "one\f\fthree", []string{"one", "", "three"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New().Open(context.Background(), writeFile(t, tt.content))
			require.NoError(t, err)
			defer src.Close()

			require.Equal(t, len(tt.want), src.PageCount())
			for i, want := range tt.want {
				got, err := src.PageText(context.Background(), i+1)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestOpen_InvalidUTF8Dropped(t *testing.T) {
	src, err := New().Open(context.Background(), writeFile(t, "ból\xff głowy"))
	require.NoError(t, err)

	got, err := src.PageText(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "ból głowy", got)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := New().Open(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPageText_OutOfRange(t *testing.T) {
	src, err := New().Open(context.Background(), writeFile(t, "one"))
	require.NoError(t, err)

	_, err = src.PageText(context.Background(), 2)

	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
