package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the crawl defaults and filter criteria
type Config struct {
	Crawl struct {
		StartPage int `yaml:"start_page"`
		EndPage   int `yaml:"end_page"`  // 0 = unbounded
		MaxPages  int `yaml:"max_pages"` // 0 = unbounded
		DelayMs   int `yaml:"delay_ms"`
	} `yaml:"crawl"`
	Filters struct {
		RequireMagnet   bool     `yaml:"require_magnet"`
		IncludeKeywords []string `yaml:"include_keywords"`
		ExcludeKeywords []string `yaml:"exclude_keywords"`
	} `yaml:"filters"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Crawl.StartPage = 1
	cfg.Crawl.EndPage = 0
	cfg.Crawl.MaxPages = 5
	cfg.Crawl.DelayMs = 1500
	cfg.Filters.RequireMagnet = false
	return cfg
}
