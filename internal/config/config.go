package config

import (
	"crypto/rsa"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Config struct {
	JWTPublicKey *rsa.PublicKey

	// Request ledger (owned by this service)
	DatabaseURL string
	// Donor directory (owned by the donor service, read-only here)
	DonorDatabaseURL string

	RedisAddress  string
	RedisPassword string

	RabbitMQURL       string
	NotificationQueue string

	Port string

	// Tuning knobs for matching and fan-out
	DirectoryTimeout  time.Duration
	NotifySendTimeout time.Duration
	NotifyMaxInFlight int
	AllowedOrigins    []string
}

func Load() *Config {
	publicKeyPath := os.Getenv("PUBLIC_KEY_PATH")
	if publicKeyPath == "" {
		publicKeyPath = "/etc/certs/public.pem"
	}
	publicKey, err := loadPublicKey(publicKeyPath)
	if err != nil {
		panic("Failed to load public key: " + err.Error())
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	donorDBURL := os.Getenv("DONOR_DB_CONNECTION_STRING")
	if donorDBURL == "" {
		panic("DONOR_DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	queue := os.Getenv("NOTIFICATION_QUEUE_NAME")
	if queue == "" {
		queue = "notifications"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		JWTPublicKey:      publicKey,
		DatabaseURL:       dbURL,
		DonorDatabaseURL:  donorDBURL,
		RedisAddress:      getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RabbitMQURL:       rabbitURL,
		NotificationQueue: queue,
		Port:              port,
		DirectoryTimeout:  getDuration("DIRECTORY_TIMEOUT_SECONDS", 5*time.Second),
		NotifySendTimeout: getDuration("NOTIFY_SEND_TIMEOUT_SECONDS", 10*time.Second),
		NotifyMaxInFlight: getInt("NOTIFY_MAX_INFLIGHT", 8),
		AllowedOrigins:    []string{getEnv("ALLOWED_ORIGIN", "*")},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}
