package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirWithEnvFile runs the test from a temp directory containing an empty
// .env so Load() does not depend on the checkout's cwd contents.
func chdirWithEnvFile(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), nil, 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadExportsToggle(t *testing.T) {
	chdirWithEnvFile(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Exports.Enabled)

	t.Setenv("ENABLE_EXPORTS", "false")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.Exports.Enabled)
}

func TestLoadDefaults(t *testing.T) {
	chdirWithEnvFile(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 180, cfg.Zmanim.HorizonDays)
	assert.False(t, cfg.Zmanim.RefreshEnabled)
}
