package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	DatabaseDSN          string
	ServerSecret         string
	Env                  string
	BaseURL              string
	SessionTTLMinutes    int
	SessionSweepMinutes  int
	ResetTokenTTLMinutes int
}

const defaultSecret = "dev-secret-change-me"

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	return Config{
		Port:                 getenv("APP_PORT", "5000"),
		DatabaseDSN:          getenv("DATABASE_DSN", "vidjot:vidjot@tcp(localhost:3306)/vidjot?charset=utf8mb4&parseTime=True&loc=UTC"),
		ServerSecret:         getenv("SERVER_SECRET", defaultSecret),
		Env:                  getenv("APP_ENV", "dev"),
		BaseURL:              getenv("BASE_URL", "http://localhost:5000"),
		SessionTTLMinutes:    getenvInt("SESSION_TTL_MINUTES", 15),
		SessionSweepMinutes:  getenvInt("SESSION_SWEEP_INTERVAL_MINUTES", 15),
		ResetTokenTTLMinutes: getenvInt("RESET_TOKEN_TTL_MINUTES", 15),
	}
}

// Validate rejects configurations that cannot safely serve traffic.
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: port is required")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("config: database DSN is required")
	}
	if cfg.Env != "dev" && cfg.ServerSecret == defaultSecret {
		return errors.New("config: default server secret is not allowed outside dev")
	}
	return nil
}
