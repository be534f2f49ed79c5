package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string   `mapstructure:"PORT"`
	Env             string   `mapstructure:"ENV"`
	DatabaseURL     string   `mapstructure:"DATABASE_URL"`
	DBMaxConns      int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns      int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins     []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS    float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int      `mapstructure:"RATE_LIMIT_BURST"`
	Analyzer        string   `mapstructure:"ANALYZER"`
	AnalysisDelayMS int      `mapstructure:"ANALYSIS_DELAY_MS"`
	GeminiAPIKey    string   `mapstructure:"GEMINI_API_KEY"`
	GeminiModel     string   `mapstructure:"GEMINI_MODEL"`
	ShareSigningKey string   `mapstructure:"SHARE_SIGNING_KEY"`
	ShareTTLMinutes int      `mapstructure:"SHARE_TTL_MINUTES"`
	NavMedicinesURL string   `mapstructure:"NAV_MEDICINES_URL"`
	NavDoctorsURL   string   `mapstructure:"NAV_DOCTORS_URL"`
	NavRemindersURL string   `mapstructure:"NAV_REMINDERS_URL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("ANALYZER", "simulated")
	v.SetDefault("ANALYSIS_DELAY_MS", 2000)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("SHARE_TTL_MINUTES", 60)
	v.SetDefault("NAV_MEDICINES_URL", "https://www.1mg.com")
	v.SetDefault("NAV_DOCTORS_URL", "https://www.practo.com/doctors")
	v.SetDefault("NAV_REMINDERS_URL", "https://medisafe.com")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("ANALYZER")
	v.BindEnv("ANALYSIS_DELAY_MS")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("GEMINI_MODEL")
	v.BindEnv("SHARE_SIGNING_KEY")
	v.BindEnv("SHARE_TTL_MINUTES")
	v.BindEnv("NAV_MEDICINES_URL")
	v.BindEnv("NAV_DOCTORS_URL")
	v.BindEnv("NAV_REMINDERS_URL")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AnalysisDelay returns the simulated analysis duration.
func (c *Config) AnalysisDelay() time.Duration {
	return time.Duration(c.AnalysisDelayMS) * time.Millisecond
}

// ShareTTL returns the lifetime of issued share tokens.
func (c *Config) ShareTTL() time.Duration {
	return time.Duration(c.ShareTTLMinutes) * time.Minute
}

// Validate checks that the configuration is safe to run. The AI analyzer
// needs a Gemini API key; the simulated analyzer has no external needs.
func (c *Config) Validate() error {
	switch c.Analyzer {
	case "simulated", "ai":
	default:
		return fmt.Errorf("ANALYZER must be \"simulated\" or \"ai\", got %q", c.Analyzer)
	}
	if c.Analyzer == "ai" && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when ANALYZER is \"ai\"")
	}
	if c.AnalysisDelayMS < 0 {
		return fmt.Errorf("ANALYSIS_DELAY_MS must not be negative")
	}
	if c.IsProduction() && c.ShareSigningKey == "" {
		return fmt.Errorf("SHARE_SIGNING_KEY is required in production")
	}
	return nil
}
