package config

import (
	"os"
	"strconv"
	"time"
)

// ExternalServiceConfig holds settings for the outbound REST client.
type ExternalServiceConfig struct {
	BaseURL     string
	TimeoutSec  int
	CacheTTLSec int
}

// KafkaConfig holds broker and topic settings for the inbound consumer and the event producer.
// An empty Brokers value disables both.
type KafkaConfig struct {
	Brokers     string
	GroupID     string
	Topic       string
	EventsTopic string
}

// RedisConfig holds settings for the external fetch cache. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MinIOConfig holds object storage settings for MinIO.
// An empty Endpoint disables archiving of rejected messages.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Timezone string
	LogLevel string
	External ExternalServiceConfig
	Kafka    KafkaConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		External: ExternalServiceConfig{
			BaseURL:     getEnv("EXTERNAL_SERVICE_URL", "https://api.example.com"),
			TimeoutSec:  getEnvInt("EXTERNAL_TIMEOUT_SEC", 10),
			CacheTTLSec: getEnvInt("EXTERNAL_CACHE_TTL_SEC", 60),
		},
		Kafka: KafkaConfig{
			Brokers:     getEnv("KAFKA_BROKERS", ""),
			GroupID:     getEnv("KAFKA_GROUP_ID", "exampleapi"),
			Topic:       getEnv("KAFKA_TOPIC", "example.queue"),
			EventsTopic: getEnv("KAFKA_EVENTS_TOPIC", "example.events"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// Location resolves Timezone, falling back to UTC when the name is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
