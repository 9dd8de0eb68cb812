package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	HTTP    ServerConfig
	MySQL   MySQLConfig
	Log     LogConfig
	Gateway GatewayConfig
	Billing BillingConfig
	Jobs    JobsConfig
}

type AppConfig struct {
	ServiceName string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type GatewayConfig struct {
	AccessToken     string
	PublicKey       string
	BaseURL         string
	CurrencyID      string
	NotificationURL string
	SuccessURL      string
	FailureURL      string
	PendingURL      string
	HTTPTimeout     time.Duration
}

type BillingConfig struct {
	ReconcileStaleAfter time.Duration
	JobBatchSize        int32
}

type JobsConfig struct {
	ReconcileInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	gatewayAccessToken := os.Getenv("GATEWAY_ACCESS_TOKEN")
	if gatewayAccessToken == "" {
		return nil, errors.New("GATEWAY_ACCESS_TOKEN environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "billing-service"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Gateway: GatewayConfig{
			AccessToken:     gatewayAccessToken,
			PublicKey:       getEnv("GATEWAY_PUBLIC_KEY", ""),
			BaseURL:         getEnv("GATEWAY_BASE_URL", "https://api.mercadopago.com"),
			CurrencyID:      getEnv("GATEWAY_CURRENCY_ID", "BRL"),
			NotificationURL: getEnv("GATEWAY_NOTIFICATION_URL", ""),
			SuccessURL:      getEnv("GATEWAY_BACK_URL_SUCCESS", ""),
			FailureURL:      getEnv("GATEWAY_BACK_URL_FAILURE", ""),
			PendingURL:      getEnv("GATEWAY_BACK_URL_PENDING", ""),
			HTTPTimeout:     getSecondsEnv("GATEWAY_HTTP_TIMEOUT_SECONDS", 10*time.Second),
		},
		Billing: BillingConfig{
			ReconcileStaleAfter: getMinutesEnv("BILLING_RECONCILE_STALE_AFTER_MINUTES", 15*time.Minute),
			JobBatchSize:        int32(getIntEnv("BILLING_JOB_BATCH_SIZE", 100)),
		},
		Jobs: JobsConfig{
			ReconcileInterval: getMinutesEnv("BILLING_RECONCILE_INTERVAL_MINUTES", 2*time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
