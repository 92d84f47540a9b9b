package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DatabaseURL string
	JWTSecret   string

	Media struct {
		APIURL    string
		AccessKey string
		SecretKey string
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	mediaAPIURL := os.Getenv("MEDIA_API_URL")
	if mediaAPIURL == "" {
		return nil, fmt.Errorf("MEDIA_API_URL must be set")
	}

	mediaAccessKey := os.Getenv("MEDIA_ACCESS_KEY")
	if mediaAccessKey == "" {
		return nil, fmt.Errorf("MEDIA_ACCESS_KEY must be set")
	}

	mediaSecretKey := os.Getenv("MEDIA_SECRET_KEY")
	if mediaSecretKey == "" {
		return nil, fmt.Errorf("MEDIA_SECRET_KEY must be set")
	}

	cfg := &Config{
		ServerPort:  serverPort,
		DatabaseURL: databaseURL,
		JWTSecret:   jwtSecret,
	}
	cfg.Media.APIURL = mediaAPIURL
	cfg.Media.AccessKey = mediaAccessKey
	cfg.Media.SecretKey = mediaSecretKey

	return cfg, nil
}
