package sources

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigCacheLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://example.com/feed.xml"
category: "funding"
company_slugs:
  - "acme-corp"
  - "widget-co"

settings:
  enabled: true
  refresh_interval: 1800
  max_items: 25
  timeout: 15
  extract_summary: true
`

	err := os.WriteFile(filepath.Join(tempDir, "test.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	err = configCache.Run()
	if err != nil {
		t.Fatal(err)
	}

	if configCache.GetConfigCount() != 1 {
		t.Errorf("Expected 1 source config, got %d", configCache.GetConfigCount())
	}

	sourceConfig, err := configCache.GetConfig("test")
	if err != nil {
		t.Fatal(err)
	}

	if sourceConfig.Name != "test" {
		t.Errorf("Expected name 'test', got '%s'", sourceConfig.Name)
	}
	if sourceConfig.URL != "https://example.com/feed.xml" {
		t.Errorf("Expected URL 'https://example.com/feed.xml', got '%s'", sourceConfig.URL)
	}
	if sourceConfig.Category != "funding" {
		t.Errorf("Expected category 'funding', got '%s'", sourceConfig.Category)
	}
	if len(sourceConfig.CompanySlugs) != 2 {
		t.Errorf("Expected 2 company slugs, got %d", len(sourceConfig.CompanySlugs))
	}
	if sourceConfig.Settings.RefreshInterval != 1800 {
		t.Errorf("Expected refresh interval 1800, got %d", sourceConfig.Settings.RefreshInterval)
	}
	if !sourceConfig.Settings.ExtractSummary {
		t.Error("Expected extract_summary enabled")
	}
}

func TestConfigCacheLoadConfigWithDefaults(t *testing.T) {
	tempDir := t.TempDir()

	content := `
url: "https://example.com/feed.xml"
`

	err := os.WriteFile(filepath.Join(tempDir, "minimal.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	sourceConfig, err := configCache.GetConfig("minimal")
	if err != nil {
		t.Fatal(err)
	}

	if sourceConfig.Category != "general" {
		t.Errorf("Expected default category 'general', got '%s'", sourceConfig.Category)
	}
	if sourceConfig.Settings.RefreshInterval != 3600 {
		t.Errorf("Expected default refresh interval 3600, got %d", sourceConfig.Settings.RefreshInterval)
	}
	if sourceConfig.Settings.MaxItems != 50 {
		t.Errorf("Expected default max items 50, got %d", sourceConfig.Settings.MaxItems)
	}
	if sourceConfig.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", sourceConfig.Settings.Timeout)
	}
	if sourceConfig.Settings.Enabled {
		t.Error("Expected enabled to default to false")
	}
}

func TestConfigCacheMissingURL(t *testing.T) {
	tempDir := t.TempDir()

	content := `
category: "funding"
settings:
  enabled: true
`

	err := os.WriteFile(filepath.Join(tempDir, "broken.yml"), []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	err = configCache.Run()
	if err == nil {
		t.Fatal("Expected an error for a config without a URL")
	}
	if !strings.Contains(err.Error(), "source URL is required") {
		t.Errorf("Expected URL validation error, got '%v'", err)
	}
}

func TestConfigCacheMissingDirectory(t *testing.T) {
	configCache := NewConfigCache("/nonexistent/path")
	if err := configCache.Run(); err != nil {
		t.Errorf("Expected a missing sources directory to be tolerated, got %v", err)
	}
	if configCache.GetConfigCount() != 0 {
		t.Errorf("Expected empty cache, got %d", configCache.GetConfigCount())
	}
}

func TestConfigCacheGetEnabledConfigs(t *testing.T) {
	tempDir := t.TempDir()

	enabled := "url: \"https://example.com/a.xml\"\nsettings:\n  enabled: true\n"
	disabled := "url: \"https://example.com/b.xml\"\nsettings:\n  enabled: false\n"

	if err := os.WriteFile(filepath.Join(tempDir, "on.yml"), []byte(enabled), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tempDir, "off.yml"), []byte(disabled), 0644); err != nil {
		t.Fatal(err)
	}

	configCache := NewConfigCache(tempDir)
	if err := configCache.Run(); err != nil {
		t.Fatal(err)
	}

	enabledConfigs := configCache.GetEnabledConfigs()
	if len(enabledConfigs) != 1 {
		t.Fatalf("Expected 1 enabled config, got %d", len(enabledConfigs))
	}
	if _, ok := enabledConfigs["on"]; !ok {
		t.Error("Expected 'on' source in enabled configs")
	}
}
