package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "DATABASE_URL", "STAGE_GRAPH_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.StageGraphFile)
}

func TestParseFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://printa@localhost/printa?sslmode=disable")
	t.Setenv("STAGE_GRAPH_FILE", "/etc/printa/stages.yaml")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "postgres://printa@localhost/printa?sslmode=disable", cfg.DatabaseURL)
	assert.Equal(t, "/etc/printa/stages.yaml", cfg.StageGraphFile)
}

func TestLoadWithoutDotEnv(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("APP_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.AppPort)
}
