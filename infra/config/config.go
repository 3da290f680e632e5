package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Config is the configuration of an aggregation run.
type Config struct {
	// Workers is the number of experiment directories evaluated in parallel.
	Workers int `json:"workers"`
	// Trim removes incomplete checkpoints before the evaluation.
	Trim bool `json:"trim"`
	// MetricsPort exposes prometheus metrics on the given port, if set.
	MetricsPort int `json:"metrics_port"`
	// Plot is the png file to render the bitrate curves into, if set.
	Plot string `json:"plot"`
	// Progress shows a progress bar over the experiment directories.
	Progress bool `json:"progress"`
	// Debug enables debug logging.
	Debug bool `json:"debug"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Workers:  1,
		Progress: true,
	}
}

// Load loads the config from the given json file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not load config from %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("could not unmarshal the config from %s: %w", path, err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	log.Info().Str("path", path).Int("workers", cfg.Workers).Msg("loaded config")
	return cfg, nil
}

// MustLoad loads the config from the given file and panics if it can not.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
