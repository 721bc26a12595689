package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const defaultShippingCost = 60

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string
	JWTSecret  string

	// Flat shipping cost added to cart totals at checkout.
	ShippingCost decimal.Decimal

	// VerifyOrderTotal makes order creation recompute the total server-side
	// instead of trusting the client supplied amount.
	VerifyOrderTotal bool
	// StrictStatusTransitions enforces the order status state machine.
	StrictStatusTransitions bool

	NATSURL           string
	MetricsNamespace  string
	InternalSecretKey string
	CORSOrigin        string

	// Bootstrap admin account, created at startup when both are set.
	AdminEmail    string
	AdminPassword string
}

var ErrMissingDBHost = errors.New("environment variables not loaded properly: DB_HOST is empty")

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:                  os.Getenv("DB_HOST"),
		DBUser:                  os.Getenv("DB_USER"),
		DBPassword:              os.Getenv("DB_PASSWORD"),
		DBName:                  os.Getenv("DB_NAME"),
		DBPort:                  getEnv("DB_PORT", "5432"),
		AppPort:                 getEnv("APP_PORT", "8080"),
		AppEnv:                  getEnv("APP_ENV", "development"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		ShippingCost:            getEnvDecimal("SHIPPING_COST", decimal.NewFromInt(defaultShippingCost)),
		VerifyOrderTotal:        getEnvBool("ORDER_VERIFY_TOTAL", false),
		StrictStatusTransitions: getEnvBool("ORDER_STRICT_TRANSITIONS", false),
		NATSURL:                 os.Getenv("NATS_URL"),
		MetricsNamespace:        getEnv("METRICS_NAMESPACE", "storefront"),
		InternalSecretKey:       os.Getenv("INTERNAL_SECRET_KEY"),
		CORSOrigin:              getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
		AdminEmail:              os.Getenv("ADMIN_EMAIL"),
		AdminPassword:           os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.DBHost == "" {
		return nil, ErrMissingDBHost
	}

	return cfg, nil
}

// LoadConfig is Load for callers that cannot continue without configuration.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return fallback
	}
	return d
}
