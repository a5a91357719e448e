package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"slicedroid/internal/engine/analyzer"
)

// AnalyzerConfig holds the windowing parameters and the sensitivity prefix
// set served as defaults for every analysis request.
type AnalyzerConfig struct {
	WindowSize        int      `yaml:"window_size"`
	WindowStep        int      `yaml:"window_step"`
	Categories        []string `yaml:"categories"`
	SensitivePrefixes []string `yaml:"sensitive_prefixes"`
}

// APIConfig holds the HTTP server settings.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// ProbeConfig holds the NATS transport settings for trace streaming.
type ProbeConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	API      APIConfig      `yaml:"api"`
	Probe    ProbeConfig    `yaml:"probe"`
}

// LoadConfig reads the configuration from a YAML file, applies defaults and
// validates the analysis section.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.AnalysisConfig().Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	ac := c.AnalysisConfig()
	ac.ApplyDefaults()
	c.Analyzer.WindowSize = ac.WindowSize
	c.Analyzer.WindowStep = ac.WindowStep
	c.Analyzer.Categories = ac.Categories

	if c.API.ListenAddr == "" {
		c.API.ListenAddr = ":8080"
	}
	if c.Probe.NATSURL == "" {
		c.Probe.NATSURL = "nats://127.0.0.1:4222"
	}
	if c.Probe.Subject == "" {
		c.Probe.Subject = "slicedroid.trace.events"
	}
}

// AnalysisConfig converts the analyzer section into the engine's config.
func (c *Config) AnalysisConfig() analyzer.Config {
	return analyzer.Config{
		WindowSize: c.Analyzer.WindowSize,
		WindowStep: c.Analyzer.WindowStep,
		Categories: c.Analyzer.Categories,
	}
}
