package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds CLI defaults; every field can be overridden by a flag.
type Config struct {
	// PollIntervalMS is the drain loop sleep in milliseconds.
	PollIntervalMS int `toml:"poll_interval_ms"`

	// Encoding names the child console output encoding (see pkg/lib/encoding).
	Encoding string `toml:"encoding"`

	// Dir is the default working directory for spawned children.
	Dir string `toml:"dir"`
}

func defaultConfig() Config {
	return Config{
		PollIntervalMS: 10,
		Encoding:       "utf8",
	}
}

// loadConfig reads the TOML config at path, or the per-user default location
// when path is empty. A missing file is not an error; defaults apply.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		base, err := os.UserConfigDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(base, "streamexec", "config.toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicit {
			return cfg, fmt.Errorf("config load failed (%s): %w", path, err)
		}
		return cfg, nil
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if cfg.PollIntervalMS <= 0 {
		cfg.PollIntervalMS = defaultConfig().PollIntervalMS
	}
	return cfg, nil
}
