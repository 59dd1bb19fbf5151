package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr     string
	CommerceAPIURL string
	RequestTimeout time.Duration
	LogLevel       string

	FreeShippingThreshold float64
	FlatShippingFee       float64
	TaxRate               float64

	BreakerEnabled bool
}

// Load reads configuration from the environment, with an optional app.env
// file for local development.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("COMMERCE_API_URL", "http://localhost:3001/api")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FREE_SHIPPING_THRESHOLD", 100.0)
	v.SetDefault("FLAT_SHIPPING_FEE", 12.99)
	v.SetDefault("TAX_RATE", 0.0)
	v.SetDefault("BREAKER_ENABLED", true)

	v.SetConfigFile("app.env")
	v.SetConfigType("env")
	// The env file is optional; real deployments configure through the
	// environment.
	_ = v.ReadInConfig()
	v.AutomaticEnv()

	cfg := &Config{
		ListenAddr:            v.GetString("LISTEN_ADDR"),
		CommerceAPIURL:        v.GetString("COMMERCE_API_URL"),
		RequestTimeout:        v.GetDuration("REQUEST_TIMEOUT"),
		LogLevel:              v.GetString("LOG_LEVEL"),
		FreeShippingThreshold: v.GetFloat64("FREE_SHIPPING_THRESHOLD"),
		FlatShippingFee:       v.GetFloat64("FLAT_SHIPPING_FEE"),
		TaxRate:               v.GetFloat64("TAX_RATE"),
		BreakerEnabled:        v.GetBool("BREAKER_ENABLED"),
	}

	if cfg.CommerceAPIURL == "" {
		return nil, fmt.Errorf("COMMERCE_API_URL must be set")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return cfg, nil
}
