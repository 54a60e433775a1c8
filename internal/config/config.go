package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Payment  PaymentConfig
	Receipt  ReceiptConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  []string
}

type AuthConfig struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	SecureCookies      bool
}

type PaymentConfig struct {
	// SimulatedDelay paces the mock authorizer; zero disables the wait
	SimulatedDelay time.Duration
}

type ReceiptConfig struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	PrivateKey string
	Timeout    time.Duration
	TimeZone   string
}

type DatabaseConfig struct {
	URL           string
	MigrationsDir string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 30),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			AllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Auth: AuthConfig{
			JWTSecret:          os.Getenv("JWT_SECRET"),
			AccessTokenExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshTokenExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
			SecureCookies:      getEnvAsBool("SECURE_COOKIES", false),
		},
		Payment: PaymentConfig{
			SimulatedDelay: getEnvAsDuration("PAYMENT_SIMULATED_DELAY", 2*time.Second),
		},
		Receipt: ReceiptConfig{
			Endpoint:   getEnv("EMAILJS_ENDPOINT", "https://api.emailjs.com/api/v1.0/email/send"),
			ServiceID:  os.Getenv("EMAILJS_SERVICE_ID"),
			TemplateID: os.Getenv("EMAILJS_TEMPLATE_ID"),
			PublicKey:  os.Getenv("EMAILJS_PUBLIC_KEY"),
			PrivateKey: os.Getenv("EMAILJS_PRIVATE_KEY"),
			Timeout:    getEnvAsDuration("EMAILJS_TIMEOUT", 15*time.Second),
			TimeZone:   getEnv("RECEIPT_TIMEZONE", "America/Mexico_City"),
		},
		Database: DatabaseConfig{
			URL:           os.Getenv("DATABASE_URL"),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvAsSlice("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "viewsmart-checkout"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Payment.SimulatedDelay < 0 {
		return fmt.Errorf("PAYMENT_SIMULATED_DELAY must not be negative")
	}

	if c.Receipt.Endpoint == "" {
		return fmt.Errorf("EMAILJS_ENDPOINT is required")
	}

	if c.Receipt.Timeout <= 0 {
		return fmt.Errorf("EMAILJS_TIMEOUT must be positive")
	}

	if _, err := time.LoadLocation(c.Receipt.TimeZone); err != nil {
		return fmt.Errorf("invalid RECEIPT_TIMEZONE %q: %w", c.Receipt.TimeZone, err)
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// ReceiptConfigured reports whether all EmailJS credentials are present
func (c *Config) ReceiptConfigured() bool {
	return c.Receipt.ServiceID != "" && c.Receipt.TemplateID != "" && c.Receipt.PublicKey != ""
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
