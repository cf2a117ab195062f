// Package formatconfig loads and saves the `.kson-format.yml` sidecar
// file that holds a project's default formatting options. The CLI commands
// take their options from flags and do not read this file.
package formatconfig

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kson-lang/kson/internal/kson/format"
)

// Config is the on-disk shape of a `.kson-format.yml` sidecar.
type Config struct {
	Style       string `yaml:"style"`        // "plain", "delimited", "compact", "classic"
	IndentSize  int    `yaml:"indent_size"`
	IndentTabs  bool   `yaml:"indent_tabs"`
	RetainTags  bool   `yaml:"retain_tags"`
}

// DefaultConfig matches format.Options' own zero-value defaults.
func DefaultConfig() *Config {
	return &Config{
		Style:      "plain",
		IndentSize: 2,
	}
}

// LoadConfig loads config from path. A missing file is not an error — it
// yields DefaultConfig(), since `.kson-format.yml` is optional.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Format Config `yaml:"format"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}

	config := &wrapper.Format
	if config.Style == "" {
		config.Style = "plain"
	}
	if config.IndentSize == 0 {
		config.IndentSize = 2
	}
	return config, nil
}

// SaveConfig writes config to path as a `.kson-format.yml` sidecar.
func SaveConfig(path string, config *Config) error {
	wrapper := struct {
		Format Config `yaml:"format"`
	}{Format: *config}

	data, err := yaml.Marshal(wrapper)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Options converts the on-disk config into format.Options.
func (c *Config) Options() format.Options {
	style := format.Plain
	switch c.Style {
	case "delimited":
		style = format.Delimited
	case "compact":
		style = format.Compact
	case "classic":
		style = format.Classic
	}
	return format.Options{
		Style:      style,
		IndentKind: format.Indent{Tabs: c.IndentTabs, Spaces: c.IndentSize},
	}
}
