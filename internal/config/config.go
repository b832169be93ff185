package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required" validate:"required"`

	ShopName      string `env:"SHOP_NAME" envDefault:"Cozy Underfoot" validate:"required"`
	OperatorEmail string `env:"OPERATOR_EMAIL" validate:"omitempty,email"`

	CacheProvider         string `env:"CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	SessionStoreProvider  string `env:"SESSION_STORE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	RedisConnectionString string `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis,required_if=SessionStoreProvider redis"`

	EmailProvider string `env:"EMAIL_PROVIDER" validate:"omitempty,oneof=postmark mailgun resend"`
	EmailAPIKey   string `env:"EMAIL_API_KEY"`
	EmailFrom     string `env:"EMAIL_FROM" validate:"omitempty,email"`
	MailgunDomain string `env:"MAILGUN_DOMAIN"`

	AdminTokenSecret string `env:"ADMIN_TOKEN_SECRET,required" validate:"required,min=16"`
	AdminPassword    string `env:"ADMIN_PASSWORD,required" validate:"required"`

	CatalogSeedPath string `env:"CATALOG_SEED_PATH"`

	SecureCookies bool `env:"SECURE_COOKIES" envDefault:"false"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	Port      string     `env:"PORT" envDefault:"8080"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	if c.EmailEnabled() {
		if strings.TrimSpace(c.EmailAPIKey) == "" || strings.TrimSpace(c.EmailFrom) == "" {
			return fmt.Errorf("EMAIL_API_KEY and EMAIL_FROM are required when EMAIL_PROVIDER is set")
		}
		if c.EmailProvider == "mailgun" && strings.TrimSpace(c.MailgunDomain) == "" {
			return fmt.Errorf("MAILGUN_DOMAIN is required when EMAIL_PROVIDER is mailgun")
		}
		if strings.TrimSpace(c.OperatorEmail) == "" {
			return fmt.Errorf("OPERATOR_EMAIL is required when EMAIL_PROVIDER is set")
		}
	}

	return nil
}

// EmailEnabled reports whether order emails are configured. When false the
// storefront runs fine; checkouts simply send nothing.
func (c *Config) EmailEnabled() bool {
	return strings.TrimSpace(c.EmailProvider) != ""
}
