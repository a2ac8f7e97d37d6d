// SPDX-FileCopyrightText: Copyright 2025 Frédéric BIDON
// SPDX-License-Identifier: Apache-2.0

// Package config loads GPM's runtime configuration: built-in defaults,
// overlaid by an optional "~/.gpm/config.yaml", overlaid in turn by
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Config is GPM's resolved runtime configuration.
type Config struct {
	// CacheDir is the root of the Source Cache. Default:
	// "${HOME}/.gpm/cache".
	CacheDir string `yaml:"cache_dir"`

	// SourcesListPath is the path of the [gpm.SourcesList] file. Default:
	// "${HOME}/.gpm/sources.list".
	SourcesListPath string `yaml:"sources_list"`

	// LockTimeout bounds how long a cache operation waits on another
	// process's advisory lock before returning ErrCacheBusy.
	LockTimeout time.Duration `yaml:"lock_timeout"`

	// GitRetries bounds the retry budget for transient Git network
	// failures.
	GitRetries int `yaml:"git_retries"`

	// LfsRetries bounds the retry budget for transient LFS download
	// failures.
	LfsRetries int `yaml:"lfs_retries"`

	// AllowPassphrasePrompt enables an interactive TTY prompt for an
	// encrypted SSH key's passphrase when GPM_SSH_PASS is unset. Disabled
	// automatically when stdin is not a terminal.
	AllowPassphrasePrompt bool `yaml:"allow_passphrase_prompt"`
}

// Default returns GPM's built-in configuration defaults.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}

	return &Config{
		CacheDir:              filepath.Join(home, ".gpm", "cache"),
		SourcesListPath:       filepath.Join(home, ".gpm", "sources.list"),
		LockTimeout:           60 * time.Second,
		GitRetries:            3,
		LfsRetries:            5,
		AllowPassphrasePrompt: true,
	}, nil
}

// Load builds the effective configuration: defaults, overlaid by
// "~/.gpm/config.yaml" when present, overlaid by environment variables.
func Load() (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	overlayPath := filepath.Join(filepath.Dir(cfg.SourcesListPath), "config.yaml")
	if err := mergeFile(cfg, overlayPath); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	return cfg, nil
}

// mergeFile overlays the YAML file at path onto cfg, in place. A missing
// file is not an error: the config.yaml overlay is always optional.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("could not read config overlay %q: %w", path, err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("could not parse config overlay %q: %w", path, err)
	}

	// mergo.WithOverride: non-zero fields in the overlay take precedence
	// over the defaults already sitting in cfg; zero-valued overlay fields
	// leave those defaults untouched.
	if err := mergo.Merge(cfg, overlay, mergo.WithOverride); err != nil {
		return fmt.Errorf("could not merge config overlay %q: %w", path, err)
	}

	return nil
}

// applyEnv layers environment-variable overrides on top of cfg, highest
// precedence last.
func applyEnv(cfg *Config) {
	if v := os.Getenv("GPM_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv("GPM_SOURCES_LIST"); v != "" {
		cfg.SourcesListPath = v
	}
	if v := os.Getenv("GPM_LOCK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.LockTimeout = d
		}
	}
	if v := os.Getenv("GPM_GIT_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GitRetries = n
		}
	}
	if v := os.Getenv("GPM_LFS_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LfsRetries = n
		}
	}
	if v := os.Getenv("GPM_NO_PASSPHRASE_PROMPT"); v != "" {
		cfg.AllowPassphrasePrompt = false
	}
}
