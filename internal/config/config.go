// Package config resolves where the board keeps its files.
//
// Precedence, lowest first: DefaultConfig, environment (FromEnv), then CLI
// flags applied by the caller.
package config

import (
	"os"
	"path/filepath"
)

// Environment variables read by FromEnv.
const (
	EnvProposals = "OPENSPEC_PATH"
	EnvHome      = "OPENSPEC_BOARD_HOME"
	EnvDataset   = "OPENSPEC_BOARD_DATASET"
	EnvDatabase  = "OPENSPEC_BOARD_DB"
)

const (
	databaseFile = "board.db"
	datasetFile  = "dataset.json"
)

// Config holds the resolved paths and switches for one run.
type Config struct {
	// DataDir holds the database and the default dataset file.
	DataDir string
	// DatabasePath is the SQLite file backing the saved board.
	DatabasePath string
	// DatasetPath is the generated Source Dataset read at startup.
	DatasetPath string
	// ProposalsPath is the openspec changes directory scanned by generate.
	ProposalsPath string
	// ExportDir receives export files.
	ExportDir string
	Verbose   bool
	// Ephemeral keeps the board in memory only.
	Ephemeral bool
}

// DefaultConfig roots everything at ~/.openspec-board.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{}.WithDataDir(filepath.Join(home, ".openspec-board")).withDefaults()
}

func (c Config) withDefaults() Config {
	if c.ProposalsPath == "" {
		c.ProposalsPath = filepath.Join("openspec", "changes")
	}
	if c.ExportDir == "" {
		c.ExportDir = "."
	}
	return c
}

// WithDataDir moves DataDir and any file paths still derived from the old one.
func (c Config) WithDataDir(dir string) Config {
	old := c.DataDir
	c.DataDir = dir
	if c.DatabasePath == "" || c.DatabasePath == filepath.Join(old, databaseFile) {
		c.DatabasePath = filepath.Join(dir, databaseFile)
	}
	if c.DatasetPath == "" || c.DatasetPath == filepath.Join(old, datasetFile) {
		c.DatasetPath = filepath.Join(dir, datasetFile)
	}
	return c
}

// FromEnv overlays the environment onto cfg. getenv is usually os.Getenv.
func FromEnv(cfg Config, getenv func(string) string) Config {
	if v := getenv(EnvHome); v != "" {
		cfg = cfg.WithDataDir(v)
	}
	if v := getenv(EnvDatabase); v != "" {
		cfg.DatabasePath = v
	}
	if v := getenv(EnvDataset); v != "" {
		cfg.DatasetPath = v
	}
	if v := getenv(EnvProposals); v != "" {
		cfg.ProposalsPath = v
	}
	return cfg
}

// Load returns DefaultConfig with the process environment applied.
func Load() Config {
	return FromEnv(DefaultConfig(), os.Getenv)
}
