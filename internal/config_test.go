package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	cfg := HTTPConfig{Port: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("port 0 should fail")
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("port above range should fail")
	}
	cfg.Port = 8080
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid port should pass: %v", err)
	}
	if cfg.Address() != ":8080" {
		t.Errorf("address = %q", cfg.Address())
	}
}

func TestStateDBConfig_PathRequired(t *testing.T) {
	cfg := StateDBConfig{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty state db path should fail")
	}
}

func TestReaderConfig_NegativeQuietPeriod(t *testing.T) {
	cfg := ReaderConfig{ReloadQuietPeriodMs: -1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative quiet period should fail")
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
