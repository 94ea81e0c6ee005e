package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/figstitch/pkg/combine"
)

// Config holds user defaults for the combine command, loaded from
// ~/.config/figstitch/config.toml (XDG aware). Flags override config values.
type Config struct {
	Font     string `toml:"font"`
	FontSize int    `toml:"fontsize"`
	Color    string `toml:"color"`
	Gravity  string `toml:"gravity"`
	Output   string `toml:"output"`
	DPI      int    `toml:"dpi"`
	Native   bool   `toml:"native"`
}

// defaultConfig returns the built-in defaults, matching the combine package.
func defaultConfig() Config {
	text := combine.DefaultTextOptions()
	return Config{
		Font:     text.Font,
		FontSize: text.FontSize,
		Color:    text.Color,
		Gravity:  string(text.Gravity),
	}
}

// loadConfig reads the user config file. A missing file is not an error and
// yields the built-in defaults; a malformed file is reported.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	dir, err := configDir()
	if err != nil {
		return cfg, nil
	}
	path := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	return cfg, nil
}
