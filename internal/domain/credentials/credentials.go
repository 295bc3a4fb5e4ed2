package credentials

import (
	"encoding/base64"
	"fmt"
	"time"
)

// timestampLayout is the provider's fixed-width calendar form: 4-digit year,
// then zero-padded month, day, hour, minute, second on a 24-hour clock.
const timestampLayout = "20060102150405"

// nairobi is the provider's required timezone. UTC+3, no DST.
var nairobi = loadNairobi()

func loadNairobi() *time.Location {
	if loc, err := time.LoadLocation("Africa/Nairobi"); err == nil {
		return loc
	}
	return time.FixedZone("EAT", 3*60*60)
}

// ConfigurationError reports missing or invalid static configuration.
// It is fatal at startup, never a per-request condition.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Field, e.Reason)
}

// Credentials is the time-bound authentication material for one push request.
// Password must be recomputed from the current clock for every submission;
// the provider rejects stale or mismatched timestamps.
type Credentials struct {
	ShortCode string
	Passkey   string
	Timestamp string
	Password  string
}

// Build derives the provider password for the given clock reading.
// The password is base64(shortCode || passkey || timestamp), byte-wise,
// no delimiter.
func Build(shortCode, passkey string, now time.Time) (Credentials, error) {
	if shortCode == "" {
		return Credentials{}, &ConfigurationError{Field: "short code", Reason: "must not be empty"}
	}
	if passkey == "" {
		return Credentials{}, &ConfigurationError{Field: "passkey", Reason: "must not be empty"}
	}

	timestamp := now.In(nairobi).Format(timestampLayout)
	password := base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))

	return Credentials{
		ShortCode: shortCode,
		Passkey:   passkey,
		Timestamp: timestamp,
		Password:  password,
	}, nil
}
