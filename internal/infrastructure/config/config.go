package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mkamau/daraja-gateway/internal/domain/credentials"
)

const (
	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"

	defaultProviderTimeout = 30 * time.Second
)

type Config struct {
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string

	BaseURL         string
	ProviderTimeout time.Duration
	HTTPAddr        string
}

// Load reads the environment. A missing required credential is a
// configuration error at startup, not a per-request failure.
func Load() (*Config, error) {
	cfg := &Config{
		ConsumerKey:    os.Getenv("MPESA_CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("MPESA_CONSUMER_SECRET"),
		ShortCode:      os.Getenv("MPESA_SHORTCODE"),
		Passkey:        os.Getenv("MPESA_PASSKEY"),
		CallbackURL:    os.Getenv("MPESA_CALLBACK_URL"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
	}

	required := []struct {
		name  string
		value string
	}{
		{"MPESA_CONSUMER_KEY", cfg.ConsumerKey},
		{"MPESA_CONSUMER_SECRET", cfg.ConsumerSecret},
		{"MPESA_SHORTCODE", cfg.ShortCode},
		{"MPESA_PASSKEY", cfg.Passkey},
		{"MPESA_CALLBACK_URL", cfg.CallbackURL},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &credentials.ConfigurationError{Field: r.name, Reason: "is required"}
		}
	}

	switch env := getEnv("MPESA_ENVIRONMENT", "sandbox"); env {
	case "sandbox":
		cfg.BaseURL = sandboxBaseURL
	case "production":
		cfg.BaseURL = productionBaseURL
	default:
		return nil, &credentials.ConfigurationError{
			Field:  "MPESA_ENVIRONMENT",
			Reason: fmt.Sprintf("must be sandbox or production, got %q", env),
		}
	}

	cfg.ProviderTimeout = defaultProviderTimeout
	if raw := os.Getenv("PROVIDER_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, &credentials.ConfigurationError{
				Field:  "PROVIDER_TIMEOUT",
				Reason: fmt.Sprintf("must be a positive duration, got %q", raw),
			}
		}
		cfg.ProviderTimeout = d
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
