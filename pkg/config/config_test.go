package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks the variables that override config values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "RESUME_OPTIMIZER_PROVIDER", "PORT"} {
		t.Setenv(name, "")
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	// Create a temporary config file.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	testConfig := Config{
		Provider:        "anthropic",
		AnthropicAPIKey: "test-key",
		Models: ModelsConfig{
			Generation: "claude-test",
		},
		Render: RenderConfig{
			Engine:  "chrome",
			CSSFile: "resume.css",
		},
	}

	data, err := json.MarshalIndent(testConfig, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}

	err = os.WriteFile(configPath, data, 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	// Test loading the config.
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.APIKey() != "test-key" {
		t.Errorf("Expected API key test-key, got %s", cfg.APIKey())
	}

	if cfg.Render.Engine != "chrome" {
		t.Errorf("Expected engine chrome, got %s", cfg.Render.Engine)
	}

	if cfg.GetEnhancementModel() != "claude-test" {
		t.Errorf("Expected enhancement model to fall back to generation, got %s", cfg.GetEnhancementModel())
	}

	// Omitted sections are filled in.
	if cfg.Server.Address != DefaultAddress {
		t.Errorf("Expected default address, got %s", cfg.Server.Address)
	}

	if cfg.Defaults.Level != "Balanced" {
		t.Errorf("Expected default level Balanced, got %s", cfg.Defaults.Level)
	}
}

func TestLoadNonexistent(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	if err == nil {
		t.Error("Expected error loading nonexistent config, got nil")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	err := os.WriteFile(configPath, []byte("{not json"), 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err = Load(configPath)
	if err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("PORT", "9000")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Expected defaults, got error %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Expected openai provider, got %s", cfg.Provider)
	}

	if cfg.APIKey() != "env-key" {
		t.Errorf("Expected key from environment, got %s", cfg.APIKey())
	}

	if cfg.Server.Address != "0.0.0.0:9000" {
		t.Errorf("Expected PORT override, got %s", cfg.Server.Address)
	}
}

func TestLoadOrDefaultMissingKey(t *testing.T) {
	clearEnv(t)

	_, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("Expected error without API key, got nil")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("RESUME_OPTIMIZER_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "env-anthropic")

	configPath := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(configPath, []byte(`{"provider": "openai", "openai_api_key": "file-key"}`), 0600)
	if err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Provider != "anthropic" {
		t.Errorf("Expected provider override, got %s", cfg.Provider)
	}

	if cfg.APIKey() != "env-anthropic" {
		t.Errorf("Expected anthropic key from environment, got %s", cfg.APIKey())
	}
}

func TestLoadEnvFiles(t *testing.T) {
	t.Setenv("RESUME_OPTIMIZER_TEST_VAR", "")
	os.Unsetenv("RESUME_OPTIMIZER_TEST_VAR")

	envPath := filepath.Join(t.TempDir(), ".env")
	err := os.WriteFile(envPath, []byte("RESUME_OPTIMIZER_TEST_VAR=from-dotenv\n"), 0600)
	if err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	err = LoadEnvFiles(filepath.Join(t.TempDir(), "missing.env"), envPath)
	if err != nil {
		t.Fatalf("Failed to load env files: %v", err)
	}

	if os.Getenv("RESUME_OPTIMIZER_TEST_VAR") != "from-dotenv" {
		t.Errorf("Expected variable from .env, got '%s'", os.Getenv("RESUME_OPTIMIZER_TEST_VAR"))
	}
}

func TestValidate(t *testing.T) {
	tmpDir := t.TempDir()
	templatePath := filepath.Join(tmpDir, "page.html")

	err := os.WriteFile(templatePath, []byte("{{ .Content }}"), 0600)
	if err != nil {
		t.Fatalf("Failed to create template: %v", err)
	}

	tests := []struct {
		name      string
		config    Config
		wantError bool
	}{
		{
			name:      "valid openai config",
			config:    Config{OpenAIAPIKey: "test-key"},
			wantError: false,
		},
		{
			name:      "valid anthropic config",
			config:    Config{Provider: "Anthropic", AnthropicAPIKey: "test-key"},
			wantError: false,
		},
		{
			name:      "existing page template",
			config:    Config{OpenAIAPIKey: "test-key", Render: RenderConfig{TemplatePath: templatePath}},
			wantError: false,
		},
		{
			name:      "missing API key",
			config:    Config{Provider: "openai"},
			wantError: true,
		},
		{
			name:      "key for the other provider",
			config:    Config{Provider: "anthropic", OpenAIAPIKey: "test-key"},
			wantError: true,
		},
		{
			name:      "unknown provider",
			config:    Config{Provider: "cohere", OpenAIAPIKey: "test-key"},
			wantError: true,
		},
		{
			name:      "nonexistent page template",
			config:    Config{OpenAIAPIKey: "test-key", Render: RenderConfig{TemplatePath: "/nonexistent/page.html"}},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := Config{OpenAIAPIKey: "test-key"}

	err := cfg.Validate()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Expected default provider openai, got %s", cfg.Provider)
	}

	if cfg.Render.Engine != "pandoc" {
		t.Errorf("Expected default engine pandoc, got %s", cfg.Render.Engine)
	}

	if cfg.Server.MaxUploadMB != DefaultMaxUploadMB {
		t.Errorf("Expected default upload limit, got %d", cfg.Server.MaxUploadMB)
	}

	if cfg.Defaults.Mode != "tailor" {
		t.Errorf("Expected default mode tailor, got %s", cfg.Defaults.Mode)
	}
}

func TestInitConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	err := InitConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}

	// Verify file was created.
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	// Read and verify the config structure without full validation.
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var cfg Config
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}

	if cfg.Defaults.OutputDir == "" {
		t.Error("Default output dir was not set")
	}

	if cfg.Server.Address != DefaultAddress {
		t.Errorf("Expected default address, got %s", cfg.Server.Address)
	}

	if cfg.OpenAIAPIKey == "" {
		t.Error("Placeholder API key was not set")
	}
}

func TestInitConfigAlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	// Create file first.
	err := os.WriteFile(configPath, []byte("{}"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// Try to init - should fail.
	err = InitConfig(configPath)
	if err == nil {
		t.Error("Expected error when config already exists, got nil")
	}
}
