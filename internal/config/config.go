package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig              `mapstructure:"server"`
	Log       LogConfig                 `mapstructure:"log"`
	Tracing   TracingConfig             `mapstructure:"tracing"`
	Metrics   MetricsConfig             `mapstructure:"metrics"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	Env          string   `mapstructure:"env"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
	CheckUpdates bool     `mapstructure:"check_updates"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ProviderConfig holds the credential and endpoint of one upstream provider.
type ProviderConfig struct {
	APIKey  string   `mapstructure:"api_key" validate:"required"`
	BaseURL string   `mapstructure:"base_url" validate:"omitempty,url"`
	Models  []string `mapstructure:"models"`
}

// providerEnv lists the vendor environment variables accepted for each credential, in lookup order.
var providerEnv = map[string][]string{
	"openai":    {"OPENAI_API_KEY"},
	"anthropic": {"ANTHROPIC_KEY", "ANTHROPIC_API_KEY"},
	"google":    {"GEMINI_KEY", "GEMINI_API_KEY"},
	"mistral":   {"MISTRAL_KEY", "MISTRAL_API_KEY"},
}

var defaultModels = map[string][]string{
	"openai":    {"gpt-3.5-turbo", "gpt-4o-mini", "o4-mini-2025-04-16"},
	"anthropic": {"claude-3-haiku-20240307", "claude-3-sonnet-20240229"},
	"google":    {"gemini-1.5-pro-latest"},
	"mistral":   {"mistral-small-latest"},
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.check_updates", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.color", true)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "llm-gateway")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	for name, envs := range providerEnv {
		key := "providers." + name
		v.SetDefault(key+".base_url", "")
		v.SetDefault(key+".models", defaultModels[name])
		if err := v.BindEnv(append([]string{key + ".api_key"}, envs...)...); err != nil {
			return nil, fmt.Errorf("binding %s credential: %w", name, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Resolve API Keys
	for name, p := range cfg.Providers {
		if strings.HasPrefix(p.APIKey, "ENV:") {
			envVar := strings.TrimPrefix(p.APIKey, "ENV:")
			val := os.Getenv(envVar)
			if val == "" {
				val = v.GetString(envVar)
			}
			p.APIKey = val
		}
		p.APIKey = strings.TrimSpace(p.APIKey)
		cfg.Providers[name] = p
	}

	return &cfg, nil
}
