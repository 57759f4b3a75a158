package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type AppConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type RedisConfig struct {
	URL string
	TTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type SMSConfig struct {
	Username string
	APIKey   string
	SMSURL   string
	SenderID string
}

type EmailConfig struct {
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	SenderEmail        string
	AdminEmail         string
}

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	SMS      SMSConfig
	Email    EmailConfig
}

// LoadDotenv pulls in a .env file for local development. Missing files are fine;
// deployed environments set real variables.
func LoadDotenv() {
	if err := godotenv.Load(); err == nil {
		log.Info().Msg("loaded .env file")
	}
}

func Load() Config {
	return Config{
		App: AppConfig{
			Port: getEnvOrDefault("PORT", "5000"),
			Env:  getEnvOrDefault("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
			User:     getEnvOrDefault("POSTGRES_USER", "givento"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "givento"),
			Name:     getEnvOrDefault("POSTGRES_DB", "givento"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  getDurationEnv("TOKEN_TTL_HOURS", 24) * time.Hour,
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
			TTL: getDurationEnv("PRODUCT_CACHE_TTL_MINUTES", 5) * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnvOrDefault("KAFKA_ORDER_TOPIC", "givento.orders"),
		},
		SMS: SMSConfig{
			Username: os.Getenv("AT_USERNAME"),
			APIKey:   os.Getenv("AT_API_KEY"),
			SMSURL:   getEnvOrDefault("AT_SMS_URL", "https://api.sandbox.africastalking.com/version1/messaging"),
			SenderID: getEnvOrDefault("AT_SENDER_ID", "AFRICASTKNG"),
		},
		Email: EmailConfig{
			AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			AWSRegion:          getEnvOrDefault("AWS_REGION", "us-east-1"),
			SenderEmail:        os.Getenv("AWS_SENDER_ADDRESS"),
			AdminEmail:         os.Getenv("ADMIN_NOTIFY_EMAIL"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return time.Duration(defaultValue)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid duration value, using default")
		return time.Duration(defaultValue)
	}
	return time.Duration(n)
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
