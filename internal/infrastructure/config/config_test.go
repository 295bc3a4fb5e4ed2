package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkamau/daraja-gateway/internal/domain/credentials"
	"github.com/mkamau/daraja-gateway/internal/infrastructure/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MPESA_CONSUMER_KEY", "consumer-key")
	t.Setenv("MPESA_CONSUMER_SECRET", "consumer-secret")
	t.Setenv("MPESA_SHORTCODE", "174379")
	t.Setenv("MPESA_PASSKEY", "bfb279f9aa9b")
	t.Setenv("MPESA_CALLBACK_URL", "https://example.com/callback")
	t.Setenv("MPESA_ENVIRONMENT", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PROVIDER_TIMEOUT", "")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.safaricom.co.ke", cfg.BaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, "174379", cfg.ShortCode)
}

func TestLoad_ProductionEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("MPESA_ENVIRONMENT", "production")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.safaricom.co.ke", cfg.BaseURL)
}

func TestLoad_MissingCredentialFailsAtStartup(t *testing.T) {
	setRequired(t)
	t.Setenv("MPESA_PASSKEY", "")

	_, err := config.Load()
	var cfgErr *credentials.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "MPESA_PASSKEY", cfgErr.Field)
}

func TestLoad_UnknownEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("MPESA_ENVIRONMENT", "staging")

	_, err := config.Load()
	var cfgErr *credentials.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestLoad_InvalidTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("PROVIDER_TIMEOUT", "soon")

	_, err := config.Load()
	var cfgErr *credentials.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
}

func TestLoad_CustomTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("PROVIDER_TIMEOUT", "10s")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
}
