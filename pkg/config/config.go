package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	// DefaultAddress is the listen address of the web server.
	DefaultAddress = "0.0.0.0:7860"
	// DefaultMaxUploadMB bounds the size of an uploaded résumé.
	DefaultMaxUploadMB = 10
)

// Config represents the application configuration.
type Config struct {
	// Provider is "openai" or "anthropic".
	Provider        string        `json:"provider"`
	OpenAIAPIKey    string        `json:"openai_api_key,omitempty"`
	AnthropicAPIKey string        `json:"anthropic_api_key,omitempty"`
	BaseURL         string        `json:"base_url,omitempty"`
	Models          ModelsConfig  `json:"models,omitempty"`
	Defaults        DefaultConfig `json:"defaults"`
	Render          RenderConfig  `json:"render"`
	Server          ServerConfig  `json:"server"`
	LogLevel        string        `json:"log_level,omitempty"`
}

// ModelsConfig holds model selection for generation and section enhancement.
type ModelsConfig struct {
	Generation  string `json:"generation,omitempty"`
	Enhancement string `json:"enhancement,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	Level     string `json:"level"`
	Mode      string `json:"mode"`
	OutputDir string `json:"output_dir"`
}

// RenderConfig holds output rendering configuration.
type RenderConfig struct {
	// Engine is "pandoc" or "chrome".
	Engine       string `json:"engine"`
	CSSFile      string `json:"css_file,omitempty"`
	TemplatePath string `json:"template_path,omitempty"`
	// PDFPath overrides the fixed temp file the PDF is written to.
	PDFPath string `json:"pdf_path,omitempty"`
}

// ServerConfig holds web server configuration.
type ServerConfig struct {
	Address     string `json:"address"`
	MaxUploadMB int    `json:"max_upload_mb"`
}

// Default returns a configuration with every optional field filled in.
func Default() (cfg Config) {
	cfg = Config{
		Provider: "openai",
		Defaults: DefaultConfig{
			Level:     "Balanced",
			Mode:      "tailor",
			OutputDir: ".",
		},
		Render: RenderConfig{
			Engine: "pandoc",
		},
		Server: ServerConfig{
			Address:     DefaultAddress,
			MaxUploadMB: DefaultMaxUploadMB,
		},
		LogLevel: "info",
	}
	return cfg
}

// DefaultPath returns the config file location under the user's home directory.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".resume-optimizer", "config.json")
	return path, err
}

// GetGenerationModel returns the generation model or empty to let the provider pick its default.
func (c *Config) GetGenerationModel() (model string) {
	model = c.Models.Generation
	return model
}

// GetEnhancementModel returns the enhancement model, falling back to the generation model.
func (c *Config) GetEnhancementModel() (model string) {
	if c.Models.Enhancement != "" {
		model = c.Models.Enhancement
		return model
	}
	model = c.GetGenerationModel()
	return model
}

// APIKey returns the key for the selected provider.
func (c *Config) APIKey() (key string) {
	if strings.EqualFold(c.Provider, "anthropic") {
		key = c.AnthropicAPIKey
		return key
	}
	key = c.OpenAIAPIKey
	return key
}

// Load reads configuration from file with .env and environment variable overrides.
func Load(configPath string) (cfg Config, err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	cfg, err = readFile(path)
	if err != nil {
		return cfg, err
	}

	err = finish(&cfg)
	return cfg, err
}

// LoadOrDefault behaves like Load, but uses the built-in defaults when the config file does not exist.
func LoadOrDefault(configPath string) (cfg Config, err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	_, statErr := os.Stat(path)
	if os.IsNotExist(statErr) {
		cfg = Default()
		err = finish(&cfg)
		return cfg, err
	}

	cfg, err = Load(path)
	return cfg, err
}

// LoadEnvFiles loads variables from .env style files without overriding the environment.
// Files that do not exist are skipped.
func LoadEnvFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, statErr := os.Stat(path)
		if os.IsNotExist(statErr) {
			continue
		}

		err = godotenv.Load(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to load env file: %s", path)
			return err
		}
	}
	return err
}

func readFile(path string) (cfg Config, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'resume-optimizer init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	// Parse JSON over the defaults so omitted fields keep them
	cfg = Default()
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	return cfg, err
}

// finish applies .env, environment overrides and validation.
func finish(cfg *Config) (err error) {
	err = LoadEnvFiles(".env")
	if err != nil {
		return err
	}

	cfg.applyEnv()

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return err
	}

	return err
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv() {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		c.OpenAIAPIKey = apiKey
	}

	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		c.AnthropicAPIKey = apiKey
	}

	if provider := os.Getenv("RESUME_OPTIMIZER_PROVIDER"); provider != "" {
		c.Provider = provider
	}

	if port := os.Getenv("PORT"); port != "" {
		c.Server.Address = "0.0.0.0:" + port
	}
}

// Validate fills defaults and checks that all required configuration is present.
func (c *Config) Validate() (err error) {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = "openai"
	}

	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			err = errors.New("openai_api_key is required (set in config or OPENAI_API_KEY env var)")
			return err
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			err = errors.New("anthropic_api_key is required (set in config or ANTHROPIC_API_KEY env var)")
			return err
		}
	default:
		err = errors.Errorf("unknown provider '%s': must be 'openai' or 'anthropic'", c.Provider)
		return err
	}

	if c.Render.TemplatePath != "" {
		_, err = os.Stat(c.Render.TemplatePath)
		if os.IsNotExist(err) {
			err = errors.Errorf("page template not found: %s", c.Render.TemplatePath)
			return err
		}
		err = nil
	}

	if c.Defaults.Level == "" {
		c.Defaults.Level = "Balanced"
	}

	if c.Defaults.Mode == "" {
		c.Defaults.Mode = "tailor"
	}

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = "."
	}

	if c.Render.Engine == "" {
		c.Render.Engine = "pandoc"
	}

	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}

	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = DefaultMaxUploadMB
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	defaultConfig := Default()
	defaultConfig.OpenAIAPIKey = "sk-..."
	defaultConfig.Render.CSSFile = filepath.Join(dir, "resume.css")

	// Write to file
	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
