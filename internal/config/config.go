package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPAddr        string
	ServiceName     string
	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string

	CurrencyPrefix string

	// Global offer
	OfferDiscount decimal.Decimal
	OfferSeconds  int
	OfferTick     time.Duration

	// Empty disables broker publishing; checkouts are then only logged.
	RabbitMQURL    string
	PublishTimeout time.Duration

	TracingEnabled bool

	CORSAllowOrigins []string
}

// Load reads the configuration from the environment. Variables already set
// take precedence over a .env file in the working directory.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ServiceName:     getenv("SERVICE_NAME", "storefront"),
		ShutdownTimeout: parseDuration(getenv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getenv("LOG_FORMAT", "json")),

		CurrencyPrefix: getenv("CURRENCY_PREFIX", "S/"),

		OfferDiscount: parseDecimal(getenv("OFFER_DISCOUNT", "5"), decimal.NewFromInt(5)),
		OfferSeconds:  parseInt(getenv("OFFER_SECONDS", "8"), 8),
		OfferTick:     parseDuration(getenv("OFFER_TICK", "1s"), time.Second),

		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		PublishTimeout: parseDuration(getenv("PUBLISH_TIMEOUT", "3s"), 3*time.Second),

		TracingEnabled: parseBool(getenv("TRACING_ENABLED", "false"), false),

		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func parseBool(v string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

func parseDecimal(v string, def decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil || d.IsNegative() {
		return def
	}
	return d
}
