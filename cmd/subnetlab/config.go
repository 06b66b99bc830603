// Copyright (c) 2025 Berik Ashimov

package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr      string `yaml:"listen_addr"`
	Mode            string `yaml:"mode"`
	MaxRequirements int    `yaml:"max_requirements"`
}

func defaultConfig() Config {
	return Config{
		ListenAddr:      "0.0.0.0:8080",
		Mode:            "release",
		MaxRequirements: 256,
	}
}

func mustEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// loadConfig reads an optional YAML file named by CONFIG_PATH and applies
// env overrides on top. A .env file is honored when present.
func loadConfig() (Config, error) {
	_ = godotenv.Load()
	cfg := defaultConfig()
	if path := mustEnv("CONFIG_PATH", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.ListenAddr = mustEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.Mode = mustEnv("GIN_MODE", cfg.Mode)
	if cfg.MaxRequirements <= 0 {
		cfg.MaxRequirements = defaultConfig().MaxRequirements
	}
	return cfg, nil
}
