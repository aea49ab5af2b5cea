package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load("testdata/ferry.yaml")
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Name)
	assert.Equal(t, 30*time.Minute, cfg.Hold)
	assert.Equal(t, "testdata/demo.env", cfg.EnvFile)
	require.Len(t, cfg.Services, 2)

	pg := cfg.Services["postgres"]
	assert.Equal(t, "postgres:14", pg.Image)
	assert.True(t, pg.Pull())
	assert.Equal(t, []string{"5432:5432"}, pg.Ports)

	app := cfg.Services["app"]
	assert.Equal(t, "demo-app:latest", app.Build)
	assert.False(t, app.Pull())
	assert.Equal(t, "demo-app:latest", app.ImageName())
	assert.Equal(t, []string{"postgres"}, app.DependsOn)
}

func TestLoadResolvesRelativeBinds(t *testing.T) {
	cfg, err := Load("testdata/ferry.yaml")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)

	// ".:/app" resolves against the config file's directory; a raw "."
	// would be read by the daemon as an (invalid) volume name
	app := cfg.Services["app"]
	require.Len(t, app.Volumes, 1)
	assert.Equal(t, filepath.Join(wd, "testdata")+":/app", app.Volumes[0])
}

func TestLoadKeepsNamedVolumes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ferry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: demo
services:
  postgres:
    image: postgres:14
    volumes:
      - pgdata:/var/lib/postgresql/data
      - ./init:/docker-entrypoint-initdb.d:ro
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	pg := cfg.Services["postgres"]
	require.Len(t, pg.Volumes, 2)
	// Named volumes pass through untouched
	assert.Equal(t, "pgdata:/var/lib/postgresql/data", pg.Volumes[0])
	// Mode suffixes survive resolution
	assert.Equal(t, filepath.Join(dir, "init")+":/docker-entrypoint-initdb.d:ro", pg.Volumes[1])
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	require.Error(t, err)
}

func TestLoadRejectsBadTopology(t *testing.T) {
	writeConfig := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "ferry.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	t.Run("no project name", func(t *testing.T) {
		_, err := Load(writeConfig(t, "version: \"1\"\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "project name")
	})

	t.Run("neither image nor build", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
name: demo
services:
  app: {}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "neither image nor build")
	})

	t.Run("unknown dependency", func(t *testing.T) {
		_, err := Load(writeConfig(t, `
name: demo
services:
  app:
    image: app:latest
    depends_on: [ghost]
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "undeclared service")
	})
}

func TestHoldDuration(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, DefaultHold, cfg.HoldDuration())

	cfg.Hold = 5 * time.Minute
	assert.Equal(t, 5*time.Minute, cfg.HoldDuration())
}
