package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Project struct {
		Title string `yaml:"title"`
		Dir   string `yaml:"dir"`
	} `yaml:"project"`
	Build struct {
		Output   string   `yaml:"output"`
		Strict   bool     `yaml:"strict"`
		Sections []string `yaml:"sections"` // empty means the built-in manifest
	} `yaml:"build"`
	History struct {
		DB string `yaml:"db"`
	} `yaml:"history"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Project.Title = "The Complete Guide"
	cfg.Project.Dir = "."
	cfg.Build.Output = "complete-guide.md"
	cfg.History.DB = "docbind.db"
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config; a missing file just means defaults
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if title := os.Getenv("DOCBIND_TITLE"); title != "" {
		cfg.Project.Title = title
	}
	if out := os.Getenv("DOCBIND_OUTPUT"); out != "" {
		cfg.Build.Output = out
	}
	if db := os.Getenv("DOCBIND_DB"); db != "" {
		cfg.History.DB = db
	}
	if strict := os.Getenv("DOCBIND_STRICT"); strict == "1" || strict == "true" {
		cfg.Build.Strict = true
	}

	applyFallbacks(cfg)
	return cfg, nil
}

// applyFallbacks restores defaults for fields the config file left empty.
func applyFallbacks(cfg *Config) {
	def := Default()
	if cfg.Project.Title == "" {
		cfg.Project.Title = def.Project.Title
	}
	if cfg.Project.Dir == "" {
		cfg.Project.Dir = def.Project.Dir
	}
	if cfg.Build.Output == "" {
		cfg.Build.Output = def.Build.Output
	}
	if cfg.History.DB == "" {
		cfg.History.DB = def.History.DB
	}
}
