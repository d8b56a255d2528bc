package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ggcrunchy/solar2d-boilerplate/level"
)

// Config is the read-only configuration surface loaded once at startup.
type Config struct {
	Destinations Destinations `yaml:"destinations"`
	Overlays     Overlays     `yaml:"overlays"`
	// EndOfLevelDelay is the number of frames to wait after leave_level
	// before the scene transition.
	EndOfLevelDelay  int    `yaml:"end_of_level_delay"`
	TransitionEffect string `yaml:"transition_effect"`
	// SuppressOverlays converts overlay waits into immediate completion.
	SuppressOverlays bool `yaml:"suppress_overlays"`
	// HookScript is the path of the tengo script providing the lifecycle
	// hooks; empty means the built-in defaults.
	HookScript string `yaml:"hook_script"`
	// LevelsDir, when set, loads levels from disk instead of the embedded
	// catalog and enables the file watcher for editor and quick-test runs.
	LevelsDir string `yaml:"levels_dir"`
}

// Destinations maps each entry origin to the scene to return to after a
// level ends.
type Destinations struct {
	Normal    string `yaml:"normal"`
	Editor    string `yaml:"editor"`
	QuickTest string `yaml:"quick_test"`
	Default   string `yaml:"default"`
}

// Overlays names the overlay shown at each lifecycle point; an empty name
// skips that overlay.
type Overlays struct {
	Start string `yaml:"start"`
	Won   string `yaml:"won"`
	Lost  string `yaml:"lost"`
}

// Default returns the configuration used when no file is provided.
func Default() *Config {
	return &Config{
		Destinations: Destinations{
			Normal:  "title",
			Default: "title",
		},
		Overlays: Overlays{
			Start: "loading",
			Won:   "won",
			Lost:  "lost",
		},
		EndOfLevelDelay:  30,
		TransitionEffect: "fade",
	}
}

// Load reads and unmarshals a config file, filling unset destinations from
// the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals config bytes.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if cfg.Destinations.Default == "" {
		cfg.Destinations.Default = Default().Destinations.Default
	}
	return cfg, nil
}

// DestinationMap converts the configured destinations into the controller's
// per-origin mapping.
func (c *Config) DestinationMap() map[level.Origin]string {
	if c == nil {
		return nil
	}
	return map[level.Origin]string{
		level.OriginNormal:    c.Destinations.Normal,
		level.OriginEditor:    c.Destinations.Editor,
		level.OriginQuickTest: c.Destinations.QuickTest,
	}
}
