package internal

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestAuthConfig_SecretRequired(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty jwt_secret should fail validation")
	}

	cfg = AuthConfig{JWTSecret: "tooshort"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("short jwt_secret should fail validation")
	}

	cfg = AuthConfig{JWTSecret: "a-long-enough-signing-secret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid secret should pass: %v", err)
	}
}

func TestAuthConfig_TTLDefaults(t *testing.T) {
	cfg := AuthConfig{JWTSecret: "a-long-enough-signing-secret"}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.AccessTTL != Duration(15*time.Minute) {
		t.Errorf("access ttl = %v, want 15m", time.Duration(cfg.AccessTTL))
	}
	if cfg.RefreshTTL != Duration(30*24*time.Hour) {
		t.Errorf("refresh ttl = %v, want 720h", time.Duration(cfg.RefreshTTL))
	}
}

func TestAuthConfig_YAMLDurations(t *testing.T) {
	raw := []byte("jwt_secret: a-long-enough-signing-secret\naccess_ttl: 15m\nrefresh_ttl: 720h\n")
	var cfg AuthConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.AccessTTL != Duration(15*time.Minute) {
		t.Errorf("access ttl = %v, want 15m", time.Duration(cfg.AccessTTL))
	}
	if cfg.RefreshTTL != Duration(720*time.Hour) {
		t.Errorf("refresh ttl = %v, want 720h", time.Duration(cfg.RefreshTTL))
	}

	var bad AuthConfig
	if err := yaml.Unmarshal([]byte("access_ttl: soon\n"), &bad); err == nil {
		t.Error("non-duration string should fail to decode")
	}
}

func TestBootstrapConfig(t *testing.T) {
	// Fully empty is valid: no admin seeding.
	cfg := BootstrapConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty bootstrap should pass: %v", err)
	}

	cfg = BootstrapConfig{AdminEmail: "not-an-email", AdminPassword: "password123"}
	if err := cfg.Validate(); err == nil {
		t.Error("bad email should fail")
	}

	cfg = BootstrapConfig{AdminEmail: "admin@example.com", AdminPassword: "short"}
	if err := cfg.Validate(); err == nil {
		t.Error("short password should fail")
	}

	cfg = BootstrapConfig{AdminEmail: "admin@example.com", AdminPassword: "password123"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid bootstrap failed: %v", err)
	}
}

func TestHTTPConfig(t *testing.T) {
	cfg := HTTPConfig{Port: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("port 0 should fail")
	}
	cfg = HTTPConfig{Port: 8080}
	if err := cfg.Validate(); err != nil {
		t.Errorf("port 8080 failed: %v", err)
	}
	if cfg.Address() != ":8080" {
		t.Errorf("address = %q", cfg.Address())
	}
}

func TestFullConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.JWTSecret = "a-long-enough-signing-secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config with secret should pass: %v", err)
	}

	cfg = NewDefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("default config without secret should fail")
	}
}
