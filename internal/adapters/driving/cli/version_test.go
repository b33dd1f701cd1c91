package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Short(t *testing.T) {
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_Executes(t *testing.T) {
	// Save and restore build information
	v, c, d := version, commit, date
	SetVersionInfo("test-version-1.0.0", "abc123", "2026-01-02")
	defer SetVersionInfo(v, c, d)

	stdout, _, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, stdout, "chpl version test-version-1.0.0 (commit abc123, built 2026-01-02)")
}

func TestVersionCmd_DisplaysDevByDefault(t *testing.T) {
	v, c, d := version, commit, date
	SetVersionInfo("dev", "none", "unknown")
	defer SetVersionInfo(v, c, d)

	stdout, _, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, stdout, "chpl version dev")
}
