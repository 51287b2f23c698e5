// Package config resolves asdep's runtime settings from defaults, an
// optional TOML config file, a .env overlay plus environment variables, and
// finally CLI flags — in that order, each step overriding the last.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the settings a track invocation needs once everything has
// been resolved.
type Config struct {
	ResultRoot    string `toml:"result_root"`
	SHA1Enabled   bool   `toml:"sha1"`
	SHA256Enabled bool   `toml:"sha256"`
	DepOutputPath string `toml:"dep_output"`
}

// defaults mirrors the original's "both algorithms on, conventional result
// root, no make-rule output" starting point.
func defaults() Config {
	return Config{
		ResultRoot:    ".omnibor",
		SHA1Enabled:   true,
		SHA256Enabled: true,
		DepOutputPath: "",
	}
}

// Load resolves a Config from, in increasing priority: built-in defaults,
// tomlPath (if non-empty and present), a .env file plus ASDEP_* environment
// variables, then the non-empty ResultRoot and DepOutputPath set on
// flagOverrides. The SHA1Enabled and SHA256Enabled fields of flagOverrides
// are not read.
//
// A missing tomlPath or .env file is not an error — both are optional
// layers a real embedding assembler may or may not supply.
func Load(tomlPath string, flagOverrides Config) (Config, error) {
	cfg := defaults()

	if tomlPath != "" {
		if _, err := os.Stat(tomlPath); err == nil {
			if _, err := toml.DecodeFile(tomlPath, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parsing %s: %w", tomlPath, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: stat %s: %w", tomlPath, err)
		}
	}

	_ = godotenv.Load()
	applyEnv(&cfg)
	applyOverrides(&cfg, flagOverrides)

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("ASDEP_RESULT_ROOT")); v != "" {
		cfg.ResultRoot = v
	}
	if v := strings.TrimSpace(os.Getenv("ASDEP_SHA1")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SHA1Enabled = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("ASDEP_SHA256")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SHA256Enabled = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("ASDEP_DEP_OUTPUT")); v != "" {
		cfg.DepOutputPath = v
	}
}

// applyOverrides layers CLI flags on top. Only a non-empty ResultRoot or
// DepOutputPath carries an override; the two algorithm booleans are not
// read here, since cmd/track.go applies them itself after Load using
// cobra's flag-changed tracking.
func applyOverrides(cfg *Config, overrides Config) {
	if overrides.ResultRoot != "" {
		cfg.ResultRoot = overrides.ResultRoot
	}
	if overrides.DepOutputPath != "" {
		cfg.DepOutputPath = overrides.DepOutputPath
	}
}
