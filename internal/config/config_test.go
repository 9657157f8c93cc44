package config

import (
	"os"
	"testing"
	"time"
)

// clearEnv unsets keys for the duration of the test. t.Setenv records
// the original value for restoration; the unset makes Load fall back to
// its defaults regardless of the ambient environment.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t,
		"APP_PORT",
		"JWT_TTL_HOURS",
		"OTP_TTL_MINUTES",
		"RESET_TOKEN_TTL_MINUTES",
		"BCRYPT_COST",
		"REVEAL_UNKNOWN_EMAIL_ON_RESET",
	)
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := Load()

	if cfg.AppPort != "8080" {
		t.Errorf("AppPort = %q, want 8080", cfg.AppPort)
	}
	if cfg.TokenExpires != 168*time.Hour {
		t.Errorf("TokenExpires = %v, want 168h", cfg.TokenExpires)
	}
	if cfg.OtpTTL != 5*time.Minute {
		t.Errorf("OtpTTL = %v, want 5m", cfg.OtpTTL)
	}
	if cfg.ResetTokenTTL != 15*time.Minute {
		t.Errorf("ResetTokenTTL = %v, want 15m", cfg.ResetTokenTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if !cfg.RevealUnknownEmail {
		t.Error("RevealUnknownEmail should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("JWT_TTL_HOURS", "24")
	t.Setenv("OTP_TTL_MINUTES", "10")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("REVEAL_UNKNOWN_EMAIL_ON_RESET", "false")

	cfg := Load()

	if cfg.AppPort != "9000" {
		t.Errorf("AppPort = %q, want 9000", cfg.AppPort)
	}
	if cfg.TokenExpires != 24*time.Hour {
		t.Errorf("TokenExpires = %v, want 24h", cfg.TokenExpires)
	}
	if cfg.OtpTTL != 10*time.Minute {
		t.Errorf("OtpTTL = %v, want 10m", cfg.OtpTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if cfg.RevealUnknownEmail {
		t.Error("RevealUnknownEmail should be false")
	}
}
