package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	LogMode     string
	DatabaseURL string
	JWTSecret   string

	// Optional infrastructure. Empty values disable the integration.
	RedisAddr    string
	KafkaBrokers []string
	KafkaTopic   string

	RateLimitRPS   float64
	RateLimitBurst int

	ReportTimeout     time.Duration
	WeekBackDays      int
	WeekForwardDays   int
	LowStockThreshold int
}

// Load reads the configuration from the environment. Call godotenv.Load first to pick up a .env file.
func Load() Config {
	return Config{
		Port:              getenv("PORT", "3000"),
		LogMode:           getenv("LOG_MODE", "development"),
		DatabaseURL:       databaseURL(),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		KafkaBrokers:      splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        getenv("KAFKA_TOPIC", "bookstore.events"),
		RateLimitRPS:      getFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst:    getInt("RATE_LIMIT_BURST", 100),
		ReportTimeout:     getDuration("REPORT_TIMEOUT", 15*time.Second),
		WeekBackDays:      getInt("REPORT_WEEK_BACK_DAYS", 7),
		WeekForwardDays:   getInt("REPORT_WEEK_FORWARD_DAYS", 1),
		LowStockThreshold: getInt("LOW_STOCK_THRESHOLD", 10),
	}
}

func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		getenv("DB_HOST", "localhost"),
		getenv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getenv("DB_NAME", "bookstore"),
		getenv("DB_PORT", "5432"),
	)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return v
}

func getFloat(k string, def float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil {
		return def
	}
	return v
}

func getDuration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
