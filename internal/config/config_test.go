package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3200, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.IsDev())
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8080
env: production
database:
  driver: mysql
  dsn: user:pass@tcp(localhost:3306)/site
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "mysql", cfg.Database.Driver)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("SITE_PORT", "9999")
	t.Setenv("SITE_JWT_SECRET", "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "from-env", cfg.JWTSecret)
}
