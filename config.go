package main

import (
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	TemplatePath string   `yaml:"template_path"`
	OutputPath   string   `yaml:"output_path"`
	SourcePaths  []string `yaml:"source_paths"`

	LLMProvider       string `yaml:"llm_provider"`
	LLMModel          string `yaml:"llm_model"`
	LLMRetries        int    `yaml:"llm_retries"`
	LLMBackoffSeconds int    `yaml:"llm_backoff_seconds"`
	GroqAPIKey        string `yaml:"groq_api_key"`
	AnthropicAPIKey   string `yaml:"anthropic_api_key"`

	GateTermsPath string `yaml:"gate_terms_path"`

	DBPath          string `yaml:"db_path"`
	ReportOutputDir string `yaml:"report_output_dir"`
	FacilityName    string `yaml:"facility_name"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	FillSchedule string `yaml:"fill_schedule"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.TemplatePath, "TEMPLATE_PATH")
	envOverride(&cfg.OutputPath, "OUTPUT_PATH")
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverrideInt(&cfg.LLMRetries, "LLM_RETRIES")
	envOverrideInt(&cfg.LLMBackoffSeconds, "LLM_BACKOFF_SECONDS")
	envOverride(&cfg.GroqAPIKey, "GROQ_API_KEY")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.GateTermsPath, "GATE_TERMS_PATH")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.ReportOutputDir, "REPORT_OUTPUT_DIR")
	envOverride(&cfg.FacilityName, "FACILITY_NAME")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")
	envOverride(&cfg.FillSchedule, "FILL_SCHEDULE")

	if paths := os.Getenv("SOURCE_PATHS"); paths != "" {
		cfg.SourcePaths = nil
		for _, p := range strings.Split(paths, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				cfg.SourcePaths = append(cfg.SourcePaths, p)
			}
		}
	}

	// Defaults
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "groq"
	}
	if cfg.LLMRetries == 0 {
		cfg.LLMRetries = 3
	}
	if cfg.LLMBackoffSeconds == 0 {
		cfg.LLMBackoffSeconds = 1
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "./output_filled_template.xlsx"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./templatefill.db"
	}
	if cfg.ReportOutputDir == "" {
		cfg.ReportOutputDir = "./reports"
	}
	if cfg.FacilityName == "" {
		cfg.FacilityName = "My Facility"
	}

	// Validate required fields
	if cfg.TemplatePath == "" {
		log.Fatalf("Required config 'template_path' is not set (via config.yaml or env var)")
	}
	if len(cfg.SourcePaths) == 0 {
		log.Fatalf("Required config 'source_paths' is not set (via config.yaml or env var)")
	}

	switch cfg.LLMProvider {
	case "groq":
		if cfg.GroqAPIKey == "" {
			log.Fatalf("groq_api_key is required when llm_provider=groq")
		}
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Fatalf("anthropic_api_key is required when llm_provider=anthropic")
		}
	default:
		log.Fatalf("llm_provider must be 'groq' or 'anthropic', got '%s'", cfg.LLMProvider)
	}

	if cfg.LLMRetries < 1 {
		log.Fatalf("invalid llm_retries '%d': must be >= 1", cfg.LLMRetries)
	}
	if cfg.LLMBackoffSeconds < 0 {
		log.Fatalf("invalid llm_backoff_seconds '%d': must be >= 0", cfg.LLMBackoffSeconds)
	}
	if cfg.GateTermsPath != "" {
		if _, err := LoadGateTerms(cfg.GateTermsPath); err != nil {
			log.Fatalf("invalid gate_terms_path '%s': %v", cfg.GateTermsPath, err)
		}
	}

	return cfg
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}
