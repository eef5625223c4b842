package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	KeyOpenAIAPIKey       = "openai.api_key"
	KeyOpenAIModel        = "openai.model"
	KeyOpenAIBaseURL      = "openai.base_url"
	KeyOpenAIMaxTokens    = "openai.max_tokens"
	KeyOpenAITemperature  = "openai.temperature"
	KeyGeminiAPIKey       = "gemini.api_key"
	KeyGeminiURL          = "gemini.url"
	KeyRemoteTimeout      = "remote.timeout"
	KeyTaxonomyPath       = "taxonomy.path"
	KeyExtractStrategies  = "extract.strategies"
	KeyExtractReportError = "extract.report_errors"
	KeyServerPort         = "server.port"
	KeyServerOrigins      = "server.allowed_origins"
	KeyLogLevel           = "log.level"
	KeyLogJSON            = "log.json"
)

// Environment variables bound to secret and endpoint keys.
var envBindings = map[string]string{
	KeyOpenAIAPIKey: "OPENAI_API_KEY",
	KeyGeminiAPIKey: "GEMINI_API_KEY",
	KeyGeminiURL:    "GEMINI_API_URL",
}

type Config struct {
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy"`
	Extract  ExtractConfig  `mapstructure:"extract"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model" validate:"required"`
	BaseURL     string  `mapstructure:"base_url" validate:"omitempty,url"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"min=1"`
	Temperature float64 `mapstructure:"temperature" validate:"min=0,max=2"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	URL    string `mapstructure:"url" validate:"omitempty,url"`
}

type RemoteConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`
}

type TaxonomyConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type ExtractConfig struct {
	Strategies   []string `mapstructure:"strategies" validate:"required,min=1,unique,dive,oneof=openai gemini regex"`
	ReportErrors bool     `mapstructure:"report_errors"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# hourlog configuration
# API keys may also come from OPENAI_API_KEY, GEMINI_API_KEY and GEMINI_API_URL
# (a .env file in the working directory is loaded as well).
openai:
  api_key: ""
  model: "gpt-3.5-turbo"
  max_tokens: 2048
  temperature: 0

gemini:
  api_key: ""
  url: ""

remote:
  timeout: 60s

taxonomy:
  path: "./data/appendix2.json"

extract:
  strategies: [openai, gemini, regex]
  report_errors: true

server:
  port: 8001
  allowed_origins: ["*"]

log:
  level: info
  json: false
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyOpenAIModel, "gpt-3.5-turbo")
	v.SetDefault(KeyOpenAIMaxTokens, 2048)
	v.SetDefault(KeyOpenAITemperature, 0.0)
	v.SetDefault(KeyRemoteTimeout, 60*time.Second)
	v.SetDefault(KeyTaxonomyPath, "./data/appendix2.json")
	v.SetDefault(KeyExtractStrategies, []string{"openai", "gemini", "regex"})
	v.SetDefault(KeyExtractReportError, true)
	v.SetDefault(KeyServerPort, 8001)
	v.SetDefault(KeyServerOrigins, []string{"*"})
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogJSON, false)

	for key, env := range envBindings {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(key, env)
	}
}
