package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"redconnect/internal/domain/chat"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"REDCONNECT_ADDR", "REDCONNECT_API_URL", "REDCONNECT_DB", "REDCONNECT_ENV",
		"REDCONNECT_SECRET", "REDCONNECT_RESEND_KEY", "REDCONNECT_RESEND_FROM",
		"REDCONNECT_SUPPORT_EMAIL", "REDCONNECT_CHAT_DELAY",
		"REDCONNECT_SLOW_REQUEST_MS", "REDCONNECT_SLOW_QUERY_MS",
	} {
		t.Setenv(k, "")
	}
}

// TestFromEnv_Defaults verifies an empty environment yields development defaults.
func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Addr != DefaultAddr || cfg.APIURL != DefaultAPIURL || cfg.DBPath != DefaultDBPath {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.Secret) != 32 || !cfg.SecretIsTemp {
		t.Errorf("expected a temporary 32-byte secret, got len=%d temp=%v", len(cfg.Secret), cfg.SecretIsTemp)
	}
	if cfg.ChatDelay != chat.DefaultDelay {
		t.Errorf("ChatDelay = %v, want %v", cfg.ChatDelay, chat.DefaultDelay)
	}
	if cfg.SlowRequest != 200*time.Millisecond || cfg.SlowQuery != 50*time.Millisecond {
		t.Errorf("unexpected thresholds: %v %v", cfg.SlowRequest, cfg.SlowQuery)
	}
}

// TestFromEnv_Overrides verifies explicit values win over defaults.
func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDCONNECT_API_URL", "https://api.example.com")
	t.Setenv("REDCONNECT_SECRET", strings.Repeat("ab", 32))
	t.Setenv("REDCONNECT_CHAT_DELAY", "10ms")
	t.Setenv("REDCONNECT_SLOW_QUERY_MS", "5")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.APIURL != "https://api.example.com" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.SecretIsTemp || cfg.Secret[0] != 0xab {
		t.Errorf("expected configured secret, got temp=%v", cfg.SecretIsTemp)
	}
	if cfg.ChatDelay != 10*time.Millisecond {
		t.Errorf("ChatDelay = %v", cfg.ChatDelay)
	}
	if cfg.SlowQuery != 5*time.Millisecond {
		t.Errorf("SlowQuery = %v", cfg.SlowQuery)
	}
}

// TestFromEnv_SecretRules verifies malformed secrets fail and production needs one.
func TestFromEnv_SecretRules(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		secret string
		want   error
	}{
		{"short secret", "", "abcd", ErrBadSecret},
		{"not hex", "", strings.Repeat("zz", 32), ErrBadSecret},
		{"production without secret", EnvProduction, "", ErrSecretRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("REDCONNECT_ENV", tt.env)
			t.Setenv("REDCONNECT_SECRET", tt.secret)
			if _, err := FromEnv(); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestFromEnv_InvalidNumbersFallBack verifies junk thresholds keep the defaults.
func TestFromEnv_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDCONNECT_SLOW_REQUEST_MS", "-3")
	t.Setenv("REDCONNECT_CHAT_DELAY", "soon")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.SlowRequest != 200*time.Millisecond {
		t.Errorf("SlowRequest = %v", cfg.SlowRequest)
	}
	if cfg.ChatDelay != chat.DefaultDelay {
		t.Errorf("ChatDelay = %v", cfg.ChatDelay)
	}
}
