package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `template_path: template.xlsx
source_paths:
  - sources/staff.csv
  - sources/bed_days.csv
groq_api_key: yaml-key
facility_name: Sunrise Lodge
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("CONFIG_PATH", configPath)
	t.Setenv("GROQ_API_KEY", "env-key")
	t.Setenv("LLM_RETRIES", "5")

	cfg := LoadConfig()

	if cfg.TemplatePath != "template.xlsx" {
		t.Errorf("TemplatePath = %q", cfg.TemplatePath)
	}
	if len(cfg.SourcePaths) != 2 {
		t.Errorf("SourcePaths = %v, want 2 entries", cfg.SourcePaths)
	}
	if cfg.GroqAPIKey != "env-key" {
		t.Errorf("GroqAPIKey = %q, env var must override yaml", cfg.GroqAPIKey)
	}
	if cfg.LLMRetries != 5 {
		t.Errorf("LLMRetries = %d, want env override 5", cfg.LLMRetries)
	}
	if cfg.FacilityName != "Sunrise Lodge" {
		t.Errorf("FacilityName = %q", cfg.FacilityName)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `template_path: template.xlsx
source_paths: [staff.csv]
groq_api_key: k
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("CONFIG_PATH", configPath)

	cfg := LoadConfig()

	if cfg.LLMProvider != "groq" {
		t.Errorf("LLMProvider = %q, want default groq", cfg.LLMProvider)
	}
	if cfg.LLMRetries != 3 {
		t.Errorf("LLMRetries = %d, want default 3", cfg.LLMRetries)
	}
	if cfg.LLMBackoffSeconds != 1 {
		t.Errorf("LLMBackoffSeconds = %d, want default 1", cfg.LLMBackoffSeconds)
	}
	if cfg.DBPath != "./templatefill.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ReportOutputDir != "./reports" {
		t.Errorf("ReportOutputDir = %q", cfg.ReportOutputDir)
	}
	if cfg.OutputPath != "./output_filled_template.xlsx" {
		t.Errorf("OutputPath = %q", cfg.OutputPath)
	}
}

func TestLoadConfig_SourcePathsFromEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `template_path: template.xlsx
source_paths: [old.csv]
groq_api_key: k
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("CONFIG_PATH", configPath)
	t.Setenv("SOURCE_PATHS", "a.csv, b.csv ,,c.csv")

	cfg := LoadConfig()

	want := []string{"a.csv", "b.csv", "c.csv"}
	if len(cfg.SourcePaths) != len(want) {
		t.Fatalf("SourcePaths = %v, want %v", cfg.SourcePaths, want)
	}
	for i := range want {
		if cfg.SourcePaths[i] != want[i] {
			t.Errorf("SourcePaths[%d] = %q, want %q", i, cfg.SourcePaths[i], want[i])
		}
	}
}

func TestEnvOverride(t *testing.T) {
	field := "original"
	t.Setenv("TEMPLATEFILL_TEST_OVERRIDE", "")
	envOverride(&field, "TEMPLATEFILL_TEST_OVERRIDE")
	if field != "original" {
		t.Errorf("empty env must not override, got %q", field)
	}

	t.Setenv("TEMPLATEFILL_TEST_OVERRIDE", "updated")
	envOverride(&field, "TEMPLATEFILL_TEST_OVERRIDE")
	if field != "updated" {
		t.Errorf("field = %q, want %q", field, "updated")
	}
}
