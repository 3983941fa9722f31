package config

import (
	"BlockDB/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig("/tmp/blocks")
	require.NoError(t, cfg.Validate())
	assert.Equal(t, types.BlockSize, cfg.BlockSize)
	assert.Equal(t, filepath.Join("/tmp/blocks", DefaultBlockFileName), cfg.BlockFilePath())
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"no dir":        func(c *Config) { c.DataDir = "" },
		"no file":       func(c *Config) { c.BlockFile = "" },
		"tiny block":    func(c *Config) { c.BlockSize = types.MinBlockSize - 1 },
		"no cache":      func(c *Config) { c.CacheBlocks = 0 },
		"bad log level": func(c *Config) { c.LogLevel = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewDefaultConfig("/tmp/blocks")
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := NewDefaultConfig(dir)
	cfg.BlockSize = 4096
	cfg.LogLevel = "debug"
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cache_blocks": 8}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.CacheBlocks)
	assert.Equal(t, types.BlockSize, cfg.BlockSize)
	assert.Equal(t, dir, cfg.DataDir)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
