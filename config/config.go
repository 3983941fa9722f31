package config

import (
	"BlockDB/storage_engine/logger"
	"BlockDB/types"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

const DefaultBlockFileName = "blocks.db"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config describes one block store.
type Config struct {
	DataDir     string `json:"data_dir"`
	BlockFile   string `json:"block_file"`
	BlockSize   int    `json:"block_size"`
	CacheBlocks int    `json:"cache_blocks"`
	LogLevel    string `json:"log_level"`
}

// NewDefaultConfig creates a Config with recommended default values
func NewDefaultConfig(dataDir string) *Config {
	return &Config{
		DataDir:     dataDir,
		BlockFile:   DefaultBlockFileName,
		BlockSize:   types.BlockSize,
		CacheBlocks: 64,
		LogLevel:    "info",
	}
}

// LoadConfig reads a JSON config file. Missing fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := NewDefaultConfig(filepath.Dir(path))
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data directory not specified", ErrInvalidConfig)
	}
	if c.BlockFile == "" {
		return fmt.Errorf("%w: block file not specified", ErrInvalidConfig)
	}
	if c.BlockSize < types.MinBlockSize || c.BlockSize > math.MaxInt32 {
		return fmt.Errorf("%w: block size %d out of range [%d, %d]",
			ErrInvalidConfig, c.BlockSize, types.MinBlockSize, math.MaxInt32)
	}
	if c.CacheBlocks <= 0 {
		return fmt.Errorf("%w: cache blocks must be positive", ErrInvalidConfig)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// BlockFilePath joins DataDir and BlockFile.
func (c *Config) BlockFilePath() string {
	return filepath.Join(c.DataDir, c.BlockFile)
}

// NewLogger builds a logger at the configured level.
func (c *Config) NewLogger() *logger.StandardLogger {
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		level = logger.LevelInfo
	}
	return logger.New(logger.WithLevel(level))
}

// SaveConfig writes c as indented JSON.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
