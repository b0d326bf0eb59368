// Package config loads the defaults file and seeds geometry from the
// environment. Flags always override file values; file values override the
// built-in defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Settings are the file-configurable defaults.
type Settings struct {
	Interval time.Duration
	Beep     bool
	Color    bool
	Precise  bool
	// Differences is empty, "normal", or "cumulative".
	Differences string
	NoTitle     bool
}

// Default returns the built-in defaults: a two second interval with every
// policy off.
func Default() Settings {
	return Settings{Interval: 2 * time.Second}
}

// Load reads the defaults file at path. A missing file is not an error; a
// present but malformed one is, so a typo never silently reverts behavior.
func Load(path string) (Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, err
	}

	var raw struct {
		Interval    *float64 `json:"interval"`
		Beep        *bool    `json:"beep"`
		Color       *bool    `json:"color"`
		Precise     *bool    `json:"precise"`
		Differences *string  `json:"differences"`
		NoTitle     *bool    `json:"no_title"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return settings, fmt.Errorf("parsing %s: %w", path, err)
	}

	if raw.Interval != nil {
		settings.Interval = time.Duration(*raw.Interval * float64(time.Second))
	}
	if raw.Beep != nil {
		settings.Beep = *raw.Beep
	}
	if raw.Color != nil {
		settings.Color = *raw.Color
	}
	if raw.Precise != nil {
		settings.Precise = *raw.Precise
	}
	if raw.Differences != nil {
		settings.Differences = *raw.Differences
	}
	if raw.NoTitle != nil {
		settings.NoTitle = *raw.NoTitle
	}
	return settings, nil
}

// DefaultPath is the conventional location of the defaults file.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rewatch", "config.json")
}
