// Package config loads blip configuration from JSON files under the base
// directory (default ~/.blip, overridable via BLIP_HOME). A repo-local
// .blip/config.json may overlay the global one: scalars from the overlay win,
// arrays are merged and deduplicated.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// BlipsDir is the directory holding one markdown file per blip.
	// Empty means <base>/blips.
	BlipsDir string `json:"blips_dir,omitempty"`

	// CapturesDir is the vault folder holding raw capture documents; the
	// cleanup pass uses it to backfill capture links. Empty disables that
	// backfill step.
	CapturesDir string `json:"captures_dir,omitempty"`

	// SurfaceLimit is the default number of blips returned by surfacing.
	SurfaceLimit int `json:"surface_limit"`

	// SnoozeDays is the default snooze length in days.
	SnoozeDays int `json:"snooze_days"`

	// SummaryChars is how many characters of body the index keeps as a summary.
	SummaryChars int `json:"summary_chars"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		SurfaceLimit: 5,
		SnoozeDays:   3,
		SummaryChars: 80,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.blip.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithRepo loads configuration from both global (~/.blip) and repo (.blip)
// directories. Repo config is found by walking upward from startDir to the
// nearest .blip/config.json. Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest
// .blip/config.json. Returns the path if found, or empty string if not.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".blip", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.BlipsDir = overlay.BlipsDir
	if result.BlipsDir == "" {
		result.BlipsDir = base.BlipsDir
	}

	result.CapturesDir = overlay.CapturesDir
	if result.CapturesDir == "" {
		result.CapturesDir = base.CapturesDir
	}

	result.SurfaceLimit = overlay.SurfaceLimit
	if result.SurfaceLimit == 0 {
		result.SurfaceLimit = base.SurfaceLimit
	}

	result.SnoozeDays = overlay.SnoozeDays
	if result.SnoozeDays == 0 {
		result.SnoozeDays = base.SnoozeDays
	}

	result.SummaryChars = overlay.SummaryChars
	if result.SummaryChars == 0 {
		result.SummaryChars = base.SummaryChars
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
