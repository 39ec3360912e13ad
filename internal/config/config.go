package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string   `mapstructure:"PORT"`
	Env                  string   `mapstructure:"ENV"`
	DatabaseURL          string   `mapstructure:"DATABASE_URL"`
	DBMaxConns           int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns           int32    `mapstructure:"DB_MIN_CONNS"`
	DefaultTenant        string   `mapstructure:"DEFAULT_TENANT"`
	CORSOrigins          []string `mapstructure:"CORS_ORIGINS"`
	AuthIssuer           string   `mapstructure:"AUTH_ISSUER"`
	AuthAudience         string   `mapstructure:"AUTH_AUDIENCE"`
	AuthSigningKey       string   `mapstructure:"AUTH_SIGNING_KEY"`
	RateLimitRPS         float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst       int      `mapstructure:"RATE_LIMIT_BURST"`
	BillingWebhookURL    string   `mapstructure:"BILLING_WEBHOOK_URL"`
	BillingWebhookSecret string   `mapstructure:"BILLING_WEBHOOK_SECRET"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DEFAULT_TENANT", "default")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("DEFAULT_TENANT")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("AUTH_SIGNING_KEY")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("BILLING_WEBHOOK_URL")
	v.BindEnv("BILLING_WEBHOOK_SECRET")

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

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: running in DEVELOPMENT mode; unauthenticated requests get admin access")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// a signing key must be set so real JWT authentication is enforced, and a
// billing webhook URL requires a secret for payload signing.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthSigningKey == "" {
		return fmt.Errorf("AUTH_SIGNING_KEY is required when ENV=%q; refusing to start without authentication", c.Env)
	}
	if c.BillingWebhookURL != "" && c.BillingWebhookSecret == "" {
		return fmt.Errorf("BILLING_WEBHOOK_SECRET is required when BILLING_WEBHOOK_URL is set")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
