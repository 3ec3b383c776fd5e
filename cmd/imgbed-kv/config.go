package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// envStorePath names the environment variable holding the store location.
const envStorePath = "IMGBED_KV_PATH"

// fileConfig is the optional YAML configuration of the CLI.
//
//	store: file:///var/lib/imgbed/kv-store.json
//	event_buffer: 200
//	log:
//	  json: true
//	  file: /var/log/imgbed-kv.log
//	  max_size_mb: 10
type fileConfig struct {
	Store       string    `yaml:"store"`
	EventBuffer int       `yaml:"event_buffer"`
	Log         logConfig `yaml:"log"`
}

type logConfig struct {
	Verbose    bool   `yaml:"verbose"`
	JSON       bool   `yaml:"json"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// storeLocation picks the store location: flag, environment, config file,
// then the library default (empty).
func storeLocation(flag string, cfg fileConfig) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(envStorePath); env != "" {
		return env
	}
	return cfg.Store
}
