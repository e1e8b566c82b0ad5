package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultConfigYAML string

//go:embed template.yml
var templateConfigYAML string

// loadDefaultConfig parses the embedded default.yml.
//
// Returns:
//   - *Config: the default configuration, or an empty Config if the embedded file is invalid
func loadDefaultConfig() *Config {
	var cfg Config
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &cfg); err == nil {
		return &cfg
	}
	return &Config{}
}

// GetDefaultConfig returns the embedded default configuration YAML.
func GetDefaultConfig() string {
	return defaultConfigYAML
}

// GetTemplateConfig returns the starter configuration written by "config --init".
func GetTemplateConfig() string {
	return templateConfigYAML
}
