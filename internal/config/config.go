package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"validateai/backend/internal/ai"
	"validateai/backend/internal/auth"
	"validateai/backend/internal/billing"
)

// Config is the full process configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	AI       ai.Config      `yaml:"ai"`
	Auth     auth.Config    `yaml:"auth"`
	Billing  billing.Config `yaml:"billing"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	DSN    string `yaml:"dsn"`
	Silent bool   `yaml:"silent"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the optional YAML file at path, then applies environment
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal yaml: %w", err)
		}
	}
	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("PORT", &cfg.Server.Port)
	if v, ok := lookup("ALLOWED_ORIGINS"); ok && strings.TrimSpace(v) != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}
	str("DATABASE_URL", &cfg.Database.DSN)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)

	str("AI_PROVIDER", &cfg.AI.Provider)
	str("OPENAI_API_KEY", &cfg.AI.OpenAI.APIKey)
	str("OPENAI_MODEL", &cfg.AI.OpenAI.Model)
	str("OPENAI_BASE_URL", &cfg.AI.OpenAI.BaseURL)
	str("GEMINI_API_KEY", &cfg.AI.Gemini.APIKey)
	str("GEMINI_MODEL", &cfg.AI.Gemini.Model)
	if v, ok := lookup("OPENAI_TEMPERATURE"); ok && v != "" {
		temp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse OPENAI_TEMPERATURE: %w", err)
		}
		cfg.AI.Temperature = temp
	}
	if v, ok := lookup("OPENAI_MAX_TOKENS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse OPENAI_MAX_TOKENS: %w", err)
		}
		cfg.AI.MaxTokens = n
	}
	if v, ok := lookup("AI_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse AI_TIMEOUT: %w", err)
		}
		cfg.AI.Timeout = d
	}

	str("SUPABASE_JWT_SECRET", &cfg.Auth.JWTSecret)
	str("SUPABASE_URL", &cfg.Auth.ProviderURL)
	str("SUPABASE_ANON_KEY", &cfg.Auth.AnonKey)
	str("AUTH_AUDIENCE", &cfg.Auth.Audience)

	str("STRIPE_SECRET_KEY", &cfg.Billing.SecretKey)
	str("STRIPE_PRICE_ID_MONTHLY", &cfg.Billing.PriceMonthly)
	str("STRIPE_PRICE_ID_YEARLY", &cfg.Billing.PriceYearly)
	str("STRIPE_WEBHOOK_SECRET", &cfg.Billing.WebhookSecret)
	str("APP_URL", &cfg.Billing.AppURL)
	if v, ok := lookup("TRIAL_DAYS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse TRIAL_DAYS: %w", err)
		}
		cfg.Billing.TrialDays = n
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "2000"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		origins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
		if app := strings.TrimRight(strings.TrimSpace(cfg.Billing.AppURL), "/"); app != "" {
			origins = append(origins, app)
		}
		cfg.Server.AllowedOrigins = origins
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "data/validateai.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = ai.ProviderOpenAI
	}
	if cfg.Billing.AppName == "" {
		cfg.Billing.AppName = "validate-ai"
	}
	if cfg.Billing.TrialDays <= 0 {
		cfg.Billing.TrialDays = 30
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
