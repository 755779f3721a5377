package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MODGRAPH_CONFIG", "MODGRAPH_HOME", "MODGRAPH_DB", "MODGRAPH_PRESETS",
		"MODGRAPH_ENV", "MODGRAPH_LOG_LEVEL", "MODGRAPH_CACHE_SIZE",
		"MODGRAPH_METRICS_ADDR", "MODGRAPH_REPO", "MODGRAPH_ROOT_ID", "MODGRAPH_ROOT_TYPE",
	} {
		t.Setenv(k, "")
	}
}

func TestDataHome(t *testing.T) {
	clearEnv(t)

	t.Run("explicit home", func(t *testing.T) {
		t.Setenv("MODGRAPH_HOME", "/srv/modgraph")
		got, err := DataHome()
		require.NoError(t, err)
		assert.Equal(t, "/srv/modgraph", got)
	})

	t.Run("xdg data home", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("XDG is not consulted on windows")
		}
		t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
		got, err := DataHome()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/tmp/xdg", "modgraph"), got)
	})
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("MODGRAPH_HOME", home)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, filepath.Join(home, "snapshots.db"), cfg.DBPath)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.Equal(t, Root{ID: ".", Type: "Folder"}, cfg.Root)
	assert.NotEmpty(t, cfg.Repo)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODGRAPH_HOME", t.TempDir())
	t.Setenv("MODGRAPH_ENV", "prod")
	t.Setenv("MODGRAPH_DB", "/data/graphs.db")
	t.Setenv("MODGRAPH_CACHE_SIZE", " 16 ")
	t.Setenv("MODGRAPH_METRICS_ADDR", ":9100")
	t.Setenv("MODGRAPH_ROOT_ID", "src")
	t.Setenv("MODGRAPH_REPO", "demo")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "/data/graphs.db", cfg.DBPath)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, ":9100", cfg.MetricsAddr)
	assert.Equal(t, "src", cfg.Root.ID)
	assert.Equal(t, "Folder", cfg.Root.Type)
	assert.Equal(t, "demo", cfg.Repo)
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	for _, raw := range []string{"many", "0", "-3"} {
		t.Run(raw, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("MODGRAPH_HOME", t.TempDir())
			t.Setenv("MODGRAPH_CACHE_SIZE", raw)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODGRAPH_HOME", t.TempDir())

	dir := t.TempDir()
	path := filepath.Join(dir, "modgraph.yaml")
	body := `
env: staging
home: ` + filepath.Join(dir, "data") + `
cache_size: 64
presets: presets.yaml
root:
  id: pkg
  type: Folder
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("MODGRAPH_CONFIG", path)
	t.Setenv("MODGRAPH_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, "presets.yaml", cfg.PresetsFile)
	assert.Equal(t, "pkg", cfg.Root.ID)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "data", "snapshots.db"), cfg.DBPath, "db follows a relocated home")
}

func TestLoad_FileUnknownField(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODGRAPH_HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "modgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colour: blue\n"), 0o644))
	t.Setenv("MODGRAPH_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := &Config{Home: filepath.Join(base, "home"), DBPath: filepath.Join(base, "db", "x.db")}
	require.NoError(t, cfg.EnsureDirectories())

	assert.DirExists(t, cfg.Home)
	assert.DirExists(t, filepath.Join(base, "db"))
}
