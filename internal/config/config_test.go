package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost:5432/littlesteps_test")
	os.Setenv("REDIS_URL", "redis://localhost:6379")
	os.Setenv("JWT_SECRET", "test-secret")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("REDIS_URL")
		os.Unsetenv("JWT_SECRET")
	}()

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if cfg.PresenceWindowSize != 500 {
		t.Errorf("Expected default presence window 500, got %d", cfg.PresenceWindowSize)
	}
	if cfg.PresenceCacheTTLSeconds != 30 {
		t.Errorf("Expected default presence cache TTL 30, got %d", cfg.PresenceCacheTTLSeconds)
	}
}

func TestLoad_Overrides(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost:5432/littlesteps_test")
	os.Setenv("REDIS_URL", "redis://localhost:6379")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("PORT", "9090")
	os.Setenv("PRESENCE_WINDOW_SIZE", "250")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("REDIS_URL")
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("PORT")
		os.Unsetenv("PRESENCE_WINDOW_SIZE")
	}()

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %q", cfg.Port)
	}
	if cfg.PresenceWindowSize != 250 {
		t.Errorf("Expected presence window 250, got %d", cfg.PresenceWindowSize)
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "42", 10, 42},
		{"uses default for empty", "", 10, 10},
		{"uses default for non-numeric", "abc", 10, 10},
		{"accepts zero", "0", 10, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key := "TEST_INT_VAR"
			os.Unsetenv(key)
			if tc.envValue != "" {
				os.Setenv(key, tc.envValue)
				defer os.Unsetenv(key)
			}

			result := getEnvAsIntOrDefault(key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("MISSING_REQUIRED_VAR")
	mustGetEnv("MISSING_REQUIRED_VAR")
}
