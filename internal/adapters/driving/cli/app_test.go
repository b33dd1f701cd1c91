package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chpl-search/internal/core/domain"
)

const textCorpusConfig = `
[corpus]
extensions = ["txt"]
workers = 2

[analyzer]
kind = "lexicon"
`

var resultLine = regexp.MustCompile(`^[^,]+,"[^"]*",\d+\.\d{3}$`)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func writeLeaflets(t *testing.T, leaflets map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range leaflets {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestEndToEnd_FeverQueryRanksBothLeaflets(t *testing.T) {
	dir := writeLeaflets(t, map[string]string{
		"aspirin.txt": "1. Aspirin\n2. Skład: kwas acetylosalicylowy\n3. Postać\n" +
			"4.1 Wskazania bol gorączka\n4.2 Dawkowanie",
		"paracetamol.txt": "1. Paracetamol\n2. Skład: paracetamol\n3. Postać\n" +
			"4.1 Wskazania bol gorączka\n4.2 Dawkowanie",
	})
	config := writeConfig(t, textCorpusConfig)
	args := []string{"-q", "gorączka", "--data", dir, "--config", config}

	first, _, err := execute(t, args...)
	require.NoError(t, err)
	second, _, err := execute(t, args...)
	require.NoError(t, err)

	assert.Equal(t, first, second, "ranking must be reproducible")

	lines := strings.Split(strings.TrimSpace(first), "\n")
	require.Len(t, lines, 2)
	files := make([]string, len(lines))
	for i, line := range lines {
		assert.Regexp(t, resultLine, line)
		files[i] = line[:strings.Index(line, ",")]
		assert.NotContains(t, line, ",0.000")
	}
	assert.ElementsMatch(t, []string{"aspirin.txt", "paracetamol.txt"}, files)
}

func TestEndToEnd_InvalidCorpusPath(t *testing.T) {
	config := writeConfig(t, textCorpusConfig)
	missing := filepath.Join(t.TempDir(), "missing")

	stdout, _, err := execute(t, "-q", "gorączka", "--data", missing, "--config", config)

	require.NoError(t, err)
	assert.Equal(t, "Invalid input path. Please provide a valid folder path.\n", stdout)
}

func TestLoadSettings_RejectsBadConfig(t *testing.T) {
	config := writeConfig(t, "[search]\npairing = \"zigzag\"\n")

	_, _, err := execute(t, "-q", "ból", "--config", config)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadSettings_RejectsBadFlags(t *testing.T) {
	config := writeConfig(t, textCorpusConfig)

	tests := []struct {
		name string
		args []string
	}{
		{"pairing", []string{"--pairing", "zigzag"}},
		{"field", []string{"--field", "everything"}},
		{"top-k", []string{"--top-k", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-q", "ból", "--config", config}, tt.args...)
			_, _, err := execute(t, args...)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	config := writeConfig(t, textCorpusConfig)
	resetFlags(t)
	t.Cleanup(func() { resetFlags(t) })

	require.NoError(t, rootCmd.ParseFlags([]string{
		"--config", config,
		"--data", "/corpus",
		"--top-k", "20",
		"--pairing", "filename",
		"--field", "indications",
		"--threshold", "0.25",
	}))

	settings, err := loadSettings(rootCmd)

	require.NoError(t, err)
	assert.Equal(t, "/corpus", settings.Corpus.Dir)
	assert.Equal(t, []string{"txt"}, settings.Corpus.Extensions)
	assert.Equal(t, 20, settings.Search.TopK)
	assert.Equal(t, domain.PairingFilename, settings.Search.Pairing)
	assert.Equal(t, domain.FieldModeIndications, settings.Search.FieldMode)
	assert.InDelta(t, 0.25, settings.Search.Threshold, 1e-9)
}

func TestApplyOverrides_UnsetFlagsKeepConfig(t *testing.T) {
	config := writeConfig(t, "[search]\ntop_k = 7\nthreshold = 0.1\n")
	resetFlags(t)
	t.Cleanup(func() { resetFlags(t) })

	require.NoError(t, rootCmd.ParseFlags([]string{"--config", config}))

	settings, err := loadSettings(rootCmd)

	require.NoError(t, err)
	assert.Equal(t, 7, settings.Search.TopK)
	assert.InDelta(t, 0.1, settings.Search.Threshold, 1e-9)
	assert.Equal(t, domain.PairingPositional, settings.Search.Pairing)
}

func TestReadsPDF(t *testing.T) {
	assert.True(t, readsPDF([]string{"txt", "pdf"}))
	assert.True(t, readsPDF([]string{".pdf"}))
	assert.False(t, readsPDF([]string{"txt"}))
	assert.False(t, readsPDF(nil))
}
