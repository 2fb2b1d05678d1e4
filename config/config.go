package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Cloudinary CloudinaryConfig
	Cashback   CashbackConfig
	Payout     PayoutConfig
	Webhook    WebhookConfig
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

type RedisConfig struct {
	Addr     string // empty disables redis (in-process lock fallback)
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// CashbackConfig controls how commission is split with the referring user.
// One canonical rule: PRO keeps ProShare of commission, FREE keeps FreeShare.
type CashbackConfig struct {
	FreeShare float64
	ProShare  float64
}

type PayoutConfig struct {
	ProviderBaseURL string
	APIKey          string
	MinCents        int64
	FreeMonthlyCapCents int64
	ProMonthlyCapCents  int64
}

// WebhookConfig holds per-network shared secrets for signature verification.
// An empty secret disables verification for that network.
type WebhookConfig struct {
	GenericSecret           string
	CommissionFactorySecret string
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_DSN", "finleybook:finleybook@tcp(localhost:3306)/finleybook?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "finleybook",
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		},
		Cashback: CashbackConfig{
			FreeShare: getEnvFloat("CASHBACK_FREE_SHARE", 0.5),
			ProShare:  getEnvFloat("CASHBACK_PRO_SHARE", 1.0),
		},
		Payout: PayoutConfig{
			ProviderBaseURL:     getEnv("PAYOUT_PROVIDER_URL", "https://api.transfers.example.com"),
			APIKey:              getEnv("PAYOUT_PROVIDER_API_KEY", ""),
			MinCents:            getEnvInt64("PAYOUT_MIN_CENTS", 1000),
			FreeMonthlyCapCents: getEnvInt64("PAYOUT_FREE_MONTHLY_CAP_CENTS", 10000),
			ProMonthlyCapCents:  getEnvInt64("PAYOUT_PRO_MONTHLY_CAP_CENTS", 100000),
		},
		Webhook: WebhookConfig{
			GenericSecret:           getEnv("WEBHOOK_GENERIC_SECRET", ""),
			CommissionFactorySecret: getEnv("WEBHOOK_CF_SECRET", ""),
		},
	}
}

// AdminEmails returns the allowlist of admin emails from ADMIN_EMAILS
// (comma-separated). Injected rather than hardcoded so deployments differ.
func AdminEmails() []string {
	raw := getEnv("ADMIN_EMAILS", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
