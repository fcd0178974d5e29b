package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LLM holds generation-service settings.
type LLM struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"-"` // never read from file, env only
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	MaxRetries  int     `yaml:"max_retries"`
}

// Pipeline holds per-job content limits.
type Pipeline struct {
	MaxScenes     int `yaml:"max_scenes"`
	MaxConcepts   int `yaml:"max_concepts"`
	MaxInputPages int `yaml:"max_input_pages"`
	MaxInputChars int `yaml:"max_input_chars"`
	MaxCodeLines  int `yaml:"max_code_lines"`
}

// Render holds render-subprocess settings.
type Render struct {
	Binary         string `yaml:"binary"`
	Quality        string `yaml:"quality"` // low_quality | medium_quality | high_quality | production_quality
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	OutputDir      string `yaml:"output_dir"`
	TempDir        string `yaml:"temp_dir"`
}

// Server holds HTTP API settings.
type Server struct {
	Port int `yaml:"port"`
}

// Config is the full application configuration.
type Config struct {
	LLM      LLM      `yaml:"llm"`
	Pipeline Pipeline `yaml:"pipeline"`
	Render   Render   `yaml:"render"`
	Server   Server   `yaml:"server"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LLM: LLM{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-4o",
			Temperature: 0.3,
			MaxTokens:   4000,
			MaxRetries:  2,
		},
		Pipeline: Pipeline{
			MaxScenes:     5,
			MaxConcepts:   5,
			MaxInputPages: 10,
			MaxInputChars: 6000,
			MaxCodeLines:  400,
		},
		Render: Render{
			Binary:         "manim",
			Quality:        "medium_quality",
			TimeoutSeconds: 300,
			OutputDir:      "outputs",
			TempDir:        "tmp",
		},
		Server: Server{Port: 8000},
	}
}

// Load reads a YAML config file, falling back to defaults when the path is
// empty or the file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("MATHVIZ_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("MATHVIZ_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("MATHVIZ_RENDER_BINARY"); v != "" {
		c.Render.Binary = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
}

// RenderTimeout returns the render timeout as a duration.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Render.TimeoutSeconds) * time.Second
}

// EnsureDirectories creates the output and temp directories.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Render.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.MkdirAll(c.Render.TempDir, 0755); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	return nil
}
