package config

import (
	"errors"

	"github.com/ilyakaznacheev/cleanenv"
)

type StripeConfig struct {
	SecretKey string `env:"STRIPE_SECRET_KEY"`
}

type Config struct {
	Port        string `env:"PORT" env-default:"3000"`
	Environment string `env:"APP_ENV" env-default:"development"`
	FrontendURL string `env:"FRONTEND_URL"`
	AppScheme   string `env:"APP_REDIRECT_SCHEME" env-default:"safecircle"`
	Stripe      StripeConfig
}

var ErrMissingStripeKey = errors.New("STRIPE_SECRET_KEY is not set")

// Load reads the configuration from the environment and validates it.
// The Stripe credential is the one hard requirement: without it the
// process must not start.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Stripe.SecretKey == "" {
		return nil, ErrMissingStripeKey
	}

	return cfg, nil
}

// IsProduction controls whether error responses may carry stack traces.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
