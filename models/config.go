package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnalyzeConfig holds runtime configuration for an analysis run. Values
// come from an optional YAML file; CLI flags override whatever the file
// sets.
type AnalyzeConfig struct {
	TimeoutSeconds      float64 `yaml:"timeout_seconds"`
	MaxRetries          int     `yaml:"max_retries"`
	RetryBackoffSeconds float64 `yaml:"retry_backoff_seconds"`
	UserAgent           string  `yaml:"user_agent"`
	RenderJavaScript    bool    `yaml:"render_javascript"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	WorkerCount         int     `yaml:"workers"`
	SummaryCSV          string  `yaml:"summary_csv"`
	DetailJSON          string  `yaml:"detail_json"`
}

// DefaultAnalyzeConfig returns the configuration used when no file and
// no flags are given.
func DefaultAnalyzeConfig() AnalyzeConfig {
	return AnalyzeConfig{
		TimeoutSeconds:      15,
		MaxRetries:          2,
		RetryBackoffSeconds: 1.5,
		ConfidenceThreshold: 0.7,
		WorkerCount:         4,
		SummaryCSV:          "generated/language_analysis.csv",
		DetailJSON:          "generated/language_analysis_full.json",
	}
}

// LoadAnalyzeConfig reads a YAML config file on top of the defaults.
func LoadAnalyzeConfig(path string) (AnalyzeConfig, error) {
	cfg := DefaultAnalyzeConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}
