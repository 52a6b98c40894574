package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Cloudinary CloudinaryConfig
	SMTP       SMTPConfig
	RabbitMQ   RabbitMQConfig
	Google     GoogleConfig
	Jobs       JobsConfig
	LogLevel   string
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret string
	AccessExpiry time.Duration
	Issuer       string
}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// RabbitMQConfig enables the broker-backed mail queue when URL is set.
type RabbitMQConfig struct {
	URL       string
	MailQueue string
}

type GoogleConfig struct {
	ClientID string
}

// JobsConfig holds the cron specs of the discount lifecycle jobs.
type JobsConfig struct {
	ThresholdSpec  string
	DeactivateSpec string
	MailWorkers    int
}

// LoadEnv nạp biến môi trường từ tệp `.env`
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env not loaded, using process environment: %v", err)
	}
}

// GetEnv returns the variable or def when unset.
func GetEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

// Load reads the configuration from the environment.
func Load() *Config {
	env := GetEnv("ENV", "dev")
	return &Config{
		Server: ServerConfig{
			Port:         GetEnv("PORT", "8083"),
			Env:          env,
			ReadTimeout:  getDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			DSN:             GetEnv("DATABASE_URL", getDBConfigByEnv(env)),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 50),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		JWT: JWTConfig{
			AccessSecret: GetEnv("SECRET_KEY_ACCESS_TOKEN", "change-me"),
			AccessExpiry: getDuration("ACCESS_TOKEN_TTL", 72*time.Hour),
			Issuer:       GetEnv("JWT_ISSUER", "market"),
		},
		Redis: RedisConfig{
			Addr:     GetEnv("REDIS_ADDR", "localhost:6379"),
			Username: os.Getenv("REDIS_USER"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    GetEnv("CLOUDINARY_FOLDER", "uploads"),
		},
		SMTP: SMTPConfig{
			Host:     GetEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     GetEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     GetEnv("SMTP_FROM", os.Getenv("SMTP_USER")),
		},
		RabbitMQ: RabbitMQConfig{
			URL:       GetEnv("RABBITMQ_URL", os.Getenv("AMQP_URL")),
			MailQueue: GetEnv("MAIL_QUEUE", "mail.outbound"),
		},
		Google: GoogleConfig{
			ClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		},
		Jobs: JobsConfig{
			ThresholdSpec:  GetEnv("CRON_THRESHOLD", "0 0 * * *"),
			DeactivateSpec: GetEnv("CRON_DEACTIVATE", "5 0 * * *"),
			MailWorkers:    getInt("MAIL_WORKERS", 4),
		},
		LogLevel: GetEnv("LOG_LEVEL", "info"),
	}
}
