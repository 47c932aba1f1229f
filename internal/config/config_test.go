package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-jwt-secret")
}

func clearOptionalEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "BCRYPT_COST", "SHUTDOWN_TIMEOUT", "CORS_ALLOWED_ORIGIN", "LOG_LEVEL", "METRICS_ENABLED"} {
		t.Setenv(key, "")
	}
}

func TestLoad_AllRequiredVarsSet_ReturnsConfig(t *testing.T) {
	setRequiredEnvVars(t)
	clearOptionalEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.JWTSecret != "test-jwt-secret" {
		t.Errorf("JWTSecret = %q, want %q", cfg.JWTSecret, "test-jwt-secret")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	setRequiredEnvVars(t)
	clearOptionalEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "5000")
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, 10)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want %v", cfg.ShutdownTimeout, 10*time.Second)
	}
	if cfg.CORSAllowedOrigin != "*" {
		t.Errorf("CORSAllowedOrigin = %q, want %q", cfg.CORSAllowedOrigin, "*")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled = false, want true")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("PORT", "9090")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://app.example.com")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, 12)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v, want %v", cfg.ShutdownTimeout, 3*time.Second)
	}
	if cfg.CORSAllowedOrigin != "https://app.example.com" {
		t.Errorf("CORSAllowedOrigin = %q, want %q", cfg.CORSAllowedOrigin, "https://app.example.com")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.MetricsEnabled {
		t.Error("MetricsEnabled = true, want false")
	}
}

func TestLoad_MissingJWTSecret_ReturnsError(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err == nil {
		t.Fatal("expected error for missing JWT_SECRET, got nil")
	}
	if cfg != nil {
		t.Error("expected nil config on error")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("error should mention JWT_SECRET, got %v", err)
	}
}

func TestLoad_BlankJWTSecret_ReturnsError(t *testing.T) {
	t.Setenv("JWT_SECRET", "   ")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for blank JWT_SECRET, got nil")
	}
}

func TestLoad_InvalidNumbers_FallBackToDefaults(t *testing.T) {
	setRequiredEnvVars(t)
	clearOptionalEnvVars(t)
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("SHUTDOWN_TIMEOUT", "forever")
	t.Setenv("METRICS_ENABLED", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.BcryptCost != DefaultBcryptCost {
		t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, DefaultBcryptCost)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want %v", cfg.ShutdownTimeout, 10*time.Second)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled should fall back to true")
	}
}

func TestLoad_BcryptCostIsClamped(t *testing.T) {
	setRequiredEnvVars(t)
	clearOptionalEnvVars(t)

	t.Setenv("BCRYPT_COST", "1")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.BcryptCost != 4 {
		t.Errorf("BcryptCost = %d, want 4", cfg.BcryptCost)
	}

	t.Setenv("BCRYPT_COST", "99")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.BcryptCost != 31 {
		t.Errorf("BcryptCost = %d, want 31", cfg.BcryptCost)
	}
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.env")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
}

func TestLoadDotEnv_DoesNotOverrideExistingEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=from-file\nAUTHAPI_DOTENV_ONLY=loaded\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("AUTHAPI_DOTENV_ONLY", "")
	os.Unsetenv("AUTHAPI_DOTENV_ONLY")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := os.Getenv("JWT_SECRET"); got != "from-env" {
		t.Errorf("JWT_SECRET = %q, want %q", got, "from-env")
	}
	if got := os.Getenv("AUTHAPI_DOTENV_ONLY"); got != "loaded" {
		t.Errorf("AUTHAPI_DOTENV_ONLY = %q, want %q", got, "loaded")
	}
}
