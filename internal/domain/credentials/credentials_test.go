package credentials_test

import (
	"encoding/base64"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkamau/daraja-gateway/internal/domain/credentials"
)

var eat = time.FixedZone("EAT", 3*60*60)

func TestBuild_DerivesPasswordFromTimestamp(t *testing.T) {
	now := time.Date(2024, 3, 15, 13, 4, 5, 0, eat)

	creds, err := credentials.Build("174379", "bfb279f9aa9b", now)
	require.NoError(t, err)

	assert.Equal(t, "20240315130405", creds.Timestamp)
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{14}$`), creds.Timestamp)

	decoded, err := base64.StdEncoding.DecodeString(creds.Password)
	require.NoError(t, err)
	assert.Equal(t, "174379"+"bfb279f9aa9b"+"20240315130405", string(decoded))
}

func TestBuild_ConvertsClockToProviderTimezone(t *testing.T) {
	// 10:04:05 UTC is 13:04:05 in Nairobi.
	now := time.Date(2024, 3, 15, 10, 4, 5, 0, time.UTC)

	creds, err := credentials.Build("174379", "passkey", now)
	require.NoError(t, err)
	assert.Equal(t, "20240315130405", creds.Timestamp)
}

func TestBuild_ZeroPadsComponents(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, eat)

	creds, err := credentials.Build("600000", "passkey", now)
	require.NoError(t, err)
	assert.Equal(t, "20260102030405", creds.Timestamp)
}

func TestBuild_EmptyInputsAreConfigurationErrors(t *testing.T) {
	now := time.Now()

	_, err := credentials.Build("", "passkey", now)
	var cfgErr *credentials.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))

	_, err = credentials.Build("174379", "", now)
	require.True(t, errors.As(err, &cfgErr))
}

func TestBuild_SequentialCallsDiffer(t *testing.T) {
	now := time.Date(2024, 3, 15, 13, 4, 5, 0, eat)

	first, err := credentials.Build("174379", "passkey", now)
	require.NoError(t, err)
	second, err := credentials.Build("174379", "passkey", now.Add(time.Second))
	require.NoError(t, err)

	assert.NotEqual(t, first.Timestamp, second.Timestamp)
	assert.NotEqual(t, first.Password, second.Password)
}
