package formatconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kson-lang/kson/internal/kson/format"
)

func TestConfigSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".kson-format.yml")

	config := &Config{Style: "classic", IndentSize: 4}
	if err := SaveConfig(configPath, config); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.IndentSize != 4 {
		t.Errorf("Expected indent size 4, got %d", loaded.IndentSize)
	}
	if loaded.Style != "classic" {
		t.Errorf("Expected style classic, got %s", loaded.Style)
	}
}

func TestConfigLoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".kson-format.yml")
	if err := os.WriteFile(configPath, []byte("invalid: yaml: content:\n  - bad"), 0644); err != nil {
		t.Fatalf("Failed to write invalid yaml: %v", err)
	}
	if _, err := LoadConfig(configPath); err == nil {
		t.Errorf("Expected error loading invalid YAML")
	}
}

func TestConfigMissingFileReturnsDefault(t *testing.T) {
	loaded, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Style != "plain" || loaded.IndentSize != 2 {
		t.Errorf("expected default config, got %+v", loaded)
	}
}

func TestConfigLoadWithZeroIndentSize(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".kson-format.yml")
	yamlContent := "format:\n  indent_size: 0\n"
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write yaml: %v", err)
	}

	loaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.IndentSize != 2 {
		t.Errorf("Expected default indent size 2 for zero value, got %d", loaded.IndentSize)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.IndentSize != 2 {
		t.Errorf("Default indent size should be 2, got %d", config.IndentSize)
	}
	if config.Style != "plain" {
		t.Errorf("Default style should be plain, got %s", config.Style)
	}
}

func TestConfigSaveError(t *testing.T) {
	err := SaveConfig("/nonexistent/directory/.kson-format.yml", DefaultConfig())
	if err == nil {
		t.Errorf("SaveConfig should return error for invalid path")
	}
}

func TestOptionsMapsStyle(t *testing.T) {
	c := &Config{Style: "classic", IndentSize: 4}
	opts := c.Options()
	if opts.Style != format.Classic || opts.IndentKind.Spaces != 4 {
		t.Errorf("unexpected options: %+v", opts)
	}
}

func TestOptionsMapsIndentTabs(t *testing.T) {
	c := &Config{Style: "plain", IndentTabs: true}
	opts := c.Options()
	if !opts.IndentKind.Tabs {
		t.Errorf("expected tab indent, got %+v", opts)
	}
}
