package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lenslayout/pkg/cache"
)

func TestCacheDirFromConfig(t *testing.T) {
	c := New(os.Stderr, log.ErrorLevel)
	c.cfg.Cache.Dir = "/tmp/lenslayout-test"

	dir, err := c.cacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/lenslayout-test", dir)
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := New(os.Stderr, log.ErrorLevel)

	dir, err := c.cacheDir()
	require.NoError(t, err)
	assert.Equal(t, appName, filepath.Base(dir))
}

func TestNewCacheBackends(t *testing.T) {
	c := New(os.Stderr, log.ErrorLevel)
	c.cfg.Cache.Dir = t.TempDir()

	c.cfg.Cache.Backend = "none"
	cc, err := c.newCache(t.Context(), false)
	require.NoError(t, err)
	assert.IsType(t, cache.NullCache{}, cc)

	c.cfg.Cache.Backend = "file"
	cc, err = c.newCache(t.Context(), false)
	require.NoError(t, err)
	assert.IsType(t, &cache.FileCache{}, cc)

	cc, err = c.newCache(t.Context(), true)
	require.NoError(t, err)
	assert.IsType(t, cache.NullCache{}, cc, "--no-cache wins over the config")
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, "[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	fc, err := cache.NewFileCache(dir)
	require.NoError(t, err)
	require.NoError(t, fc.Set(t.Context(), "k", []byte("v"), 0))

	runCLI(t, "--config", cfgPath, "cache", "clear")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCacheClearMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	cfgPath := writeConfig(t, "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	runCLI(t, "--config", cfgPath, "cache", "clear")

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "clearing a missing cache must not create it")
}
