package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, applies env overrides for secrets and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// applyEnv fills empty secret fields from the environment
func applyEnv(cfg *Config) {
	if cfg.Transcription.APIKey == "" {
		cfg.Transcription.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if len(cfg.Summarization.APIKeys) == 0 {
		var raw string
		switch strings.ToLower(cfg.Summarization.Provider) {
		case "gemini":
			raw = os.Getenv("GEMINI_API_KEYS")
		case "ollama":
		default:
			raw = os.Getenv("OPENAI_API_KEY")
		}
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				cfg.Summarization.APIKeys = append(cfg.Summarization.APIKeys, k)
			}
		}
	}

	if len(cfg.Summarization.Hosts) == 0 && strings.ToLower(cfg.Summarization.Provider) == "ollama" {
		for _, h := range strings.Split(os.Getenv("OLLAMA_HOST"), ",") {
			if h = strings.TrimSpace(h); h != "" {
				cfg.Summarization.Hosts = append(cfg.Summarization.Hosts, h)
			}
		}
	}
}
