package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr        string
	AppEnv      string
	LogLevel    string
	CORSOrigins string

	DatabaseURL string
	JWTSecret   string

	// CartStore selects the cart persistence backend: postgres, redis or memory.
	CartStore     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CatalogBaseURL is where the chat assistant fetches product context from.
	// It normally points back at this service.
	CatalogBaseURL string
	CatalogTimeout time.Duration

	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	VNPayTmnCode    string
	VNPayHashSecret string
	VNPayURL        string
	VNPayReturnURL  string
}

// Load reads .env (when present) and then environment variables.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:        getEnv("ADDR", ":8080"),
		AppEnv:      getEnv("APP_ENV", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		CartStore:     getEnv("CART_STORE", "postgres"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		CatalogBaseURL: getEnv("CATALOG_BASE_URL", "http://localhost:8080"),
		CatalogTimeout: time.Duration(getEnvInt("CATALOG_TIMEOUT_SECONDS", 5)) * time.Second,

		GroqAPIKey:  os.Getenv("GROQ_API_KEY"),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),

		VNPayTmnCode:    os.Getenv("VNPAY_TMN_CODE"),
		VNPayHashSecret: os.Getenv("VNPAY_HASH_SECRET"),
		VNPayURL:        getEnv("VNPAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
		VNPayReturnURL:  getEnv("VNPAY_RETURN_URL", "http://localhost:3000/payment/vnpay"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
