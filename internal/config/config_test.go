package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SurfaceLimit != 5 || cfg.SnoozeDays != 3 || cfg.SummaryChars != 80 {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"surface_limit": 10, "blips_dir": "/data/blips"}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SurfaceLimit != 10 {
		t.Errorf("SurfaceLimit = %d, want 10", cfg.SurfaceLimit)
	}
	if cfg.BlipsDir != "/data/blips" {
		t.Errorf("BlipsDir = %q", cfg.BlipsDir)
	}
	if cfg.SnoozeDays != 3 {
		t.Errorf("SnoozeDays should keep default, got %d", cfg.SnoozeDays)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{not json`)
	if _, err := Load(dir); err == nil {
		t.Error("invalid JSON should error")
	}
}

func TestLoadWithRepo_RepoOverlaysGlobal(t *testing.T) {
	globalDir := t.TempDir()
	writeConfig(t, globalDir, `{"surface_limit": 7, "disabled_tools": ["blip_delete"]}`)

	repoRoot := t.TempDir()
	repoCfgDir := filepath.Join(repoRoot, ".blip")
	if err := os.MkdirAll(repoCfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, repoCfgDir, `{"surface_limit": 3, "disabled_tools": ["blip_archive"]}`)

	nested := filepath.Join(repoRoot, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadWithRepo(globalDir, nested)
	if err != nil {
		t.Fatalf("LoadWithRepo: %v", err)
	}
	if cfg.SurfaceLimit != 3 {
		t.Errorf("SurfaceLimit = %d, want repo value 3", cfg.SurfaceLimit)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools = %v, want union of both", cfg.DisabledTools)
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if got := FindRepoConfig(t.TempDir()); got != "" {
		t.Errorf("FindRepoConfig = %q, want empty", got)
	}
}

func TestMerge_ArraysDeduplicated(t *testing.T) {
	merged := Merge(
		&Config{DisabledTools: []string{"a", "b"}},
		&Config{DisabledTools: []string{" b ", "c", ""}},
	)
	want := []string{"a", "b", "c"}
	if len(merged.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", merged.DisabledTools, want)
	}
	for i := range want {
		if merged.DisabledTools[i] != want[i] {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, merged.DisabledTools[i], want[i])
		}
	}
}
