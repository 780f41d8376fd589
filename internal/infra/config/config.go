// internal/infra/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the environment configuration for the whole application.
//
// Secret-bearing fields (DBPassword, SendGridAPIKey, ActivationSecret) accept
// either the literal value or an "sm://<secretId>" reference resolved through
// Secret Manager at startup.
type Config struct {
	Port string

	// PostgreSQL
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Mail / activation
	SendGridAPIKey   string
	MailFrom         string
	MailFromName     string
	ActivationSecret string
	ActivationTTL    time.Duration
	SelfBaseURL      string

	// GCP
	GCPProjectID       string
	GCPCredentialsFile string
	FirebaseProjectID  string
	GCSBucket          string

	// Frontend origin allowed by CORS. Empty means "*" (development).
	AllowedOrigin string
}

// Load reads environment variables and returns the Config.
func Load() *Config {
	defaultProject := os.Getenv("GCP_PROJECT_ID")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		DBHost:     getenvDefault("DB_HOST", "localhost"),
		DBPort:     getenvDefault("DB_PORT", "5432"),
		DBUser:     getenvDefault("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getenvDefault("DB_NAME", "digitalstore"),
		DBSSLMode:  getenvDefault("DB_SSLMODE", "disable"),

		SendGridAPIKey:   os.Getenv("SENDGRID_API_KEY"),
		MailFrom:         os.Getenv("MAIL_FROM"),
		MailFromName:     getenvDefault("MAIL_FROM_NAME", "Digital Store"),
		ActivationSecret: os.Getenv("ACTIVATION_SECRET"),
		ActivationTTL:    getenvDuration("ACTIVATION_TTL", 0),
		SelfBaseURL:      getenvDefault("SELF_BASE_URL", "http://localhost:8080"),

		GCPProjectID:       defaultProject,
		GCPCredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirebaseProjectID:  getenvDefault("FIREBASE_PROJECT_ID", defaultProject),
		GCSBucket:          os.Getenv("GCS_BUCKET"),

		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Plain integer means hours (e.g. ACTIVATION_TTL=72).
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Hour
	}
	return def
}
