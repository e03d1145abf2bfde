package config

import (
	"os"
	"testing"
)

var envKeys = []string{
	"APP_PORT",
	"DATABASE_DSN",
	"SERVER_SECRET",
	"APP_ENV",
	"BASE_URL",
	"SESSION_TTL_MINUTES",
	"SESSION_SWEEP_INTERVAL_MINUTES",
	"RESET_TOKEN_TTL_MINUTES",
}

func clearEnv() {
	for _, k := range envKeys {
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg := Load()

	if cfg.Port != "5000" {
		t.Errorf("Load() Port = %v, want 5000", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Errorf("Load() Env = %v, want dev", cfg.Env)
	}
	if cfg.SessionTTLMinutes != 15 {
		t.Errorf("Load() SessionTTLMinutes = %v, want 15", cfg.SessionTTLMinutes)
	}
	if cfg.SessionSweepMinutes != 15 {
		t.Errorf("Load() SessionSweepMinutes = %v, want 15", cfg.SessionSweepMinutes)
	}
	if cfg.ResetTokenTTLMinutes != 15 {
		t.Errorf("Load() ResetTokenTTLMinutes = %v, want 15", cfg.ResetTokenTTLMinutes)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	os.Setenv("APP_PORT", "9090")
	os.Setenv("DATABASE_DSN", "user:pass@tcp(db:3306)/vidjot?parseTime=True")
	os.Setenv("SERVER_SECRET", "my-secret")
	os.Setenv("APP_ENV", "prod")
	os.Setenv("BASE_URL", "https://vidjot.example.com")
	os.Setenv("SESSION_TTL_MINUTES", "30")
	os.Setenv("RESET_TOKEN_TTL_MINUTES", "5")
	defer clearEnv()

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Load() Port = %v, want 9090", cfg.Port)
	}
	if cfg.DatabaseDSN != "user:pass@tcp(db:3306)/vidjot?parseTime=True" {
		t.Errorf("Load() DatabaseDSN = %v", cfg.DatabaseDSN)
	}
	if cfg.ServerSecret != "my-secret" {
		t.Errorf("Load() ServerSecret = %v, want my-secret", cfg.ServerSecret)
	}
	if cfg.Env != "prod" {
		t.Errorf("Load() Env = %v, want prod", cfg.Env)
	}
	if cfg.BaseURL != "https://vidjot.example.com" {
		t.Errorf("Load() BaseURL = %v", cfg.BaseURL)
	}
	if cfg.SessionTTLMinutes != 30 {
		t.Errorf("Load() SessionTTLMinutes = %v, want 30", cfg.SessionTTLMinutes)
	}
	if cfg.ResetTokenTTLMinutes != 5 {
		t.Errorf("Load() ResetTokenTTLMinutes = %v, want 5", cfg.ResetTokenTTLMinutes)
	}
}

func TestLoad_InvalidTTL(t *testing.T) {
	os.Setenv("SESSION_TTL_MINUTES", "invalid")
	os.Setenv("RESET_TOKEN_TTL_MINUTES", "-5")
	defer clearEnv()

	cfg := Load()

	// Should fall back to defaults
	if cfg.SessionTTLMinutes != 15 {
		t.Errorf("Load() SessionTTLMinutes = %v, want 15 (default)", cfg.SessionTTLMinutes)
	}
	if cfg.ResetTokenTTLMinutes != 15 {
		t.Errorf("Load() ResetTokenTTLMinutes = %v, want 15 (default)", cfg.ResetTokenTTLMinutes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid dev config",
			cfg: Config{
				Port:         "5000",
				DatabaseDSN:  "vidjot:vidjot@tcp(localhost:3306)/vidjot",
				ServerSecret: "dev-secret-change-me",
				Env:          "dev",
			},
			wantErr: false,
		},
		{
			name: "valid prod config",
			cfg: Config{
				Port:         "5000",
				DatabaseDSN:  "vidjot:vidjot@tcp(localhost:3306)/vidjot",
				ServerSecret: "production-secret-key",
				Env:          "prod",
			},
			wantErr: false,
		},
		{
			name: "empty port",
			cfg: Config{
				Port:         "",
				DatabaseDSN:  "vidjot:vidjot@tcp(localhost:3306)/vidjot",
				ServerSecret: "secret",
				Env:          "dev",
			},
			wantErr: true,
		},
		{
			name: "empty dsn",
			cfg: Config{
				Port:         "5000",
				DatabaseDSN:  "",
				ServerSecret: "secret",
				Env:          "dev",
			},
			wantErr: true,
		},
		{
			name: "default secret in prod",
			cfg: Config{
				Port:         "5000",
				DatabaseDSN:  "vidjot:vidjot@tcp(localhost:3306)/vidjot",
				ServerSecret: "dev-secret-change-me",
				Env:          "prod",
			},
			wantErr: true,
		},
		{
			name: "default secret in test env",
			cfg: Config{
				Port:         "5000",
				DatabaseDSN:  "vidjot:vidjot@tcp(localhost:3306)/vidjot",
				ServerSecret: "dev-secret-change-me",
				Env:          "test",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
