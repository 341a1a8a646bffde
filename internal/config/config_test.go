package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultConfig_RootedAtHome(t *testing.T) {
	cfg := DefaultConfig()

	if !strings.HasSuffix(cfg.DataDir, ".openspec-board") {
		t.Errorf("DataDir = %s, want suffix .openspec-board", cfg.DataDir)
	}
	if cfg.DatabasePath != filepath.Join(cfg.DataDir, "board.db") {
		t.Errorf("DatabasePath = %s", cfg.DatabasePath)
	}
	if cfg.DatasetPath != filepath.Join(cfg.DataDir, "dataset.json") {
		t.Errorf("DatasetPath = %s", cfg.DatasetPath)
	}
	if cfg.ProposalsPath != filepath.Join("openspec", "changes") {
		t.Errorf("ProposalsPath = %s", cfg.ProposalsPath)
	}
	if cfg.ExportDir != "." {
		t.Errorf("ExportDir = %s, want .", cfg.ExportDir)
	}
	if cfg.Verbose || cfg.Ephemeral {
		t.Error("switches should default to off")
	}
}

func TestFromEnv_HomeMovesDerivedPaths(t *testing.T) {
	cfg := FromEnv(DefaultConfig(), envMap(map[string]string{EnvHome: "/srv/board"}))

	if cfg.DataDir != "/srv/board" {
		t.Errorf("DataDir = %s", cfg.DataDir)
	}
	if cfg.DatabasePath != filepath.Join("/srv/board", "board.db") {
		t.Errorf("DatabasePath = %s", cfg.DatabasePath)
	}
	if cfg.DatasetPath != filepath.Join("/srv/board", "dataset.json") {
		t.Errorf("DatasetPath = %s", cfg.DatasetPath)
	}
}

func TestFromEnv_ExplicitPathsWin(t *testing.T) {
	cfg := FromEnv(DefaultConfig(), envMap(map[string]string{
		EnvHome:      "/srv/board",
		EnvDatabase:  "/var/lib/board.sqlite",
		EnvDataset:   "/etc/board/cards.json",
		EnvProposals: "/repo/openspec/changes",
	}))

	if cfg.DatabasePath != "/var/lib/board.sqlite" {
		t.Errorf("DatabasePath = %s", cfg.DatabasePath)
	}
	if cfg.DatasetPath != "/etc/board/cards.json" {
		t.Errorf("DatasetPath = %s", cfg.DatasetPath)
	}
	if cfg.ProposalsPath != "/repo/openspec/changes" {
		t.Errorf("ProposalsPath = %s", cfg.ProposalsPath)
	}
}

func TestFromEnv_EmptyEnvironmentIsIdentity(t *testing.T) {
	base := DefaultConfig()
	if got := FromEnv(base, envMap(nil)); got != base {
		t.Errorf("FromEnv changed config: %+v", got)
	}
}

func TestWithDataDir_KeepsCustomPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DatasetPath = "/custom/dataset.json"

	cfg = cfg.WithDataDir("/elsewhere")

	if cfg.DatasetPath != "/custom/dataset.json" {
		t.Errorf("DatasetPath = %s, want custom path kept", cfg.DatasetPath)
	}
	if cfg.DatabasePath != filepath.Join("/elsewhere", "board.db") {
		t.Errorf("DatabasePath = %s", cfg.DatabasePath)
	}
}
