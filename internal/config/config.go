package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type OAuthConfig struct {
	Key         string
	Secret      string
	CallbackURL string
}

// Enabled reports whether both the key and the secret are set
func (c OAuthConfig) Enabled() bool {
	return c.Key != "" && c.Secret != ""
}

type Config struct {
	Port             string
	DBPath           string
	CombinationsPath string
	SessionLifetime  time.Duration
	Discord          OAuthConfig
	Google           OAuthConfig
}

// Load reads configuration from environment variables and .env file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only
func FromEnv() (Config, error) {
	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	lifetime, err := time.ParseDuration(getEnv("SESSION_LIFETIME", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("SESSION_LIFETIME: %w", err)
	}
	if lifetime <= 0 {
		return Config{}, fmt.Errorf("SESSION_LIFETIME must be positive, got %s", lifetime)
	}

	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "wc_bracket.db"),
		CombinationsPath: getEnv("COMBINATIONS_PATH", "static/group_combinations.csv"),
		SessionLifetime:  lifetime,
		Discord: OAuthConfig{
			Key:         os.Getenv("DISCORD_KEY"),
			Secret:      os.Getenv("DISCORD_SECRET"),
			CallbackURL: os.Getenv("DISCORD_CALLBACK_URL"),
		},
		Google: OAuthConfig{
			Key:         os.Getenv("GOOGLE_KEY"),
			Secret:      os.Getenv("GOOGLE_SECRET"),
			CallbackURL: os.Getenv("GOOGLE_CALLBACK_URL"),
		},
	}
	return cfg, nil
}

func (c Config) Addr() string {
	return ":" + c.Port
}
