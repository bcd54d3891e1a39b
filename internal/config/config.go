package config

import (
	"errors"
	"os"
	"strconv"
)

type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPass        string
	DBName        string
	DBSSLMode     string
	JWTSecret     string
	JWTTTLHours   int
	Port          string
	Env           string
	UploadDir     string
	QRDir         string
	MaxUploadSize int64
	LogLevel      string

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string
	PaymentCurrency   string

	// DefaultPricePerPlayer is used when seeding categories.
	DefaultPricePerPlayer int
}

func NewConfigFromEnv() (*Config, error) {
	maxUploadSize, err := strconv.ParseInt(getenv("MAX_UPLOAD_SIZE", "1048576"), 10, 64)
	if err != nil || maxUploadSize <= 0 {
		return nil, errors.New("MAX_UPLOAD_SIZE must be a positive number of bytes")
	}
	price, err := strconv.Atoi(getenv("DEFAULT_PRICE_PER_PLAYER", "800"))
	if err != nil || price < 0 {
		return nil, errors.New("DEFAULT_PRICE_PER_PLAYER must be a non-negative integer")
	}
	ttl, err := strconv.Atoi(getenv("JWT_TTL_HOURS", "24"))
	if err != nil || ttl <= 0 {
		return nil, errors.New("JWT_TTL_HOURS must be a positive integer")
	}

	cfg := &Config{
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPass:        getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "anpl_sports"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		JWTSecret:     getenv("JWT_SECRET", ""),
		JWTTTLHours:   ttl,
		Port:          getenv("PORT", "3000"),
		Env:           getenv("ENV", "development"),
		UploadDir:     getenv("UPLOAD_DIR", "./uploads"),
		QRDir:         getenv("QR_DIR", "./uploads/receipts"),
		MaxUploadSize: maxUploadSize,
		LogLevel:      getenv("LOG_LEVEL", "info"),

		RazorpayKeyID:     getenv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret: getenv("RAZORPAY_KEY_SECRET", ""),
		RazorpayBaseURL:   getenv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
		PaymentCurrency:   getenv("PAYMENT_CURRENCY", "INR"),

		DefaultPricePerPlayer: price,
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// IsProduction reports whether ENV selects the production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPass +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
