package config

import (
	"os"
	"testing"
	"time"

	"github.com/raf-aleaqarih/project-raf25/pkg/observability"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvDuration tests the getEnvDuration helper function
func TestGetEnvDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "45s")
	defer os.Unsetenv("TEST_DURATION")

	if got := getEnvDuration("TEST_DURATION", time.Minute); got != 45*time.Second {
		t.Errorf("getEnvDuration() = %v, want 45s", got)
	}
	if got := getEnvDuration("TEST_DURATION_MISSING", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration() = %v, want default", got)
	}

	os.Setenv("TEST_DURATION_BAD", "not-a-duration")
	defer os.Unsetenv("TEST_DURATION_BAD")
	if got := getEnvDuration("TEST_DURATION_BAD", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration() = %v, want default on parse error", got)
	}
}

// TestParseLogLevel tests log level parsing
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  observability.LogLevel
	}{
		{"debug", observability.DebugLevel},
		{"info", observability.InfoLevel},
		{"warn", observability.WarnLevel},
		{"warning", observability.WarnLevel},
		{"error", observability.ErrorLevel},
		{"DEBUG", observability.DebugLevel},
		{"bogus", observability.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// TestLoadConfig_Defaults verifies the defaults applied without environment
func TestLoadConfig_Defaults(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %v, want 8080", cfg.Server.Port)
	}
	if cfg.Server.HealthPort != "9090" {
		t.Errorf("Server.HealthPort = %v, want 9090", cfg.Server.HealthPort)
	}
	if cfg.RateLimit.MaxRequests != 100 {
		t.Errorf("RateLimit.MaxRequests = %v, want 100", cfg.RateLimit.MaxRequests)
	}
	if cfg.RateLimit.Window != 15*time.Minute {
		t.Errorf("RateLimit.Window = %v, want 15m", cfg.RateLimit.Window)
	}
	if cfg.Uploads.MaxBytes != 5*1024*1024 {
		t.Errorf("Uploads.MaxBytes = %v, want 5MB", cfg.Uploads.MaxBytes)
	}
	if cfg.Uploads.Backend != "filesystem" {
		t.Errorf("Uploads.Backend = %v, want filesystem", cfg.Uploads.Backend)
	}
	if cfg.Storage.MongoURI != "" {
		t.Errorf("Storage.MongoURI = %v, want empty (fallback mode)", cfg.Storage.MongoURI)
	}
}

// TestLoadConfig_RequiresJWTSecret verifies the secret is mandatory
func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	os.Unsetenv("JWT_SECRET")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() expected error without JWT_SECRET")
	}
}

// TestValidate_PortsMustDiffer verifies the port collision check
func TestValidate_PortsMustDiffer(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("RAF_PORT", "9090")
	defer os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("RAF_PORT")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() expected error when ports collide")
	}
}
