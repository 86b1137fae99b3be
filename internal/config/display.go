package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DisplayFileName is the per-repository display configuration file at the repository root.
const DisplayFileName = "catalogmirror.conf"

// DisplayConfig holds per-repository presentation preferences consulted when
// records are augmented after a load.
type DisplayConfig struct {
	ShowDemos   bool `yaml:"show_demos"`
	ShowRatings bool `yaml:"show_ratings"`
}

// DefaultDisplay returns the presentation defaults used when no file exists.
func DefaultDisplay() DisplayConfig {
	return DisplayConfig{ShowDemos: true, ShowRatings: true}
}

// LoadDisplay reads a per-repository display config. A missing file yields defaults.
func LoadDisplay(path string) (DisplayConfig, error) {
	cfg := DefaultDisplay()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read display config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultDisplay(), fmt.Errorf("failed to unmarshal display config: %w", err)
	}
	return cfg, nil
}
