package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/errs"
)

type Config struct {
	ProjectID        string
	Region           string
	LogLevel         string
	Port             string
	PlaidClientID    string
	PlaidSecret      string
	PlaidEnvironment dto.PlaidEnvironment
	KMSKeyName       string
	AdminKey         string
	AdminKeySecret   string // Secret Manager secret id; takes over when AdminKey is unset
	SyncInterval     time.Duration
}

// New loads configuration from the environment (a local .env file is honored
// when present). The Plaid credentials are required; there is no fallback.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ProjectID:        os.Getenv("PROJECTID"),
		Region:           os.Getenv("REGION"),
		LogLevel:         os.Getenv("LOGLEVEL"),
		Port:             getEnv("PORT", "8080"),
		PlaidClientID:    os.Getenv("PLAIDCLIENTID"),
		PlaidSecret:      os.Getenv("PLAIDSECRET"),
		PlaidEnvironment: getPlaidEnvironment(os.Getenv("PLAIDENVIRONMENT")),
		KMSKeyName:       os.Getenv("KMSKEYNAME"),
		AdminKey:         os.Getenv("ADMINKEY"),
		AdminKeySecret:   os.Getenv("ADMINKEYSECRET"),
		SyncInterval:     getDuration("SYNCINTERVAL", 24*time.Hour),
	}

	if cfg.PlaidClientID == "" {
		return nil, errs.NewConfigError("PLAIDCLIENTID is required")
	}
	if cfg.PlaidSecret == "" {
		return nil, errs.NewConfigError("PLAIDSECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func getPlaidEnvironment(env string) dto.PlaidEnvironment {
	switch env {
	case "development":
		return dto.PlaidDevelopment
	case "production":
		return dto.PlaidProduction
	default: // "sandbox"
		return dto.PlaidSandbox
	}
}
