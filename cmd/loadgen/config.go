package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config drives the load generator. All knobs live in a YAML file so runs
// are reproducible without recompiling.
type Config struct {
	BaseURL         string `yaml:"base_url"`
	NumberOfUsers   int    `yaml:"number_of_users"`
	MaxPostsPerUser int    `yaml:"max_posts_per_user"`
	MaxLikesPerUser int    `yaml:"max_likes_per_user"`
	Concurrency     int    `yaml:"concurrency"`
}

func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080/api/"
	}
	if cfg.NumberOfUsers <= 0 {
		cfg.NumberOfUsers = 10
	}
	if cfg.MaxPostsPerUser <= 0 {
		cfg.MaxPostsPerUser = 3
	}
	if cfg.MaxLikesPerUser <= 0 {
		cfg.MaxLikesPerUser = 5
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &cfg, nil
}
