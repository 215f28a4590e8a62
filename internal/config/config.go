package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv            string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	JWTExpiration     time.Duration
	FrontendURL       string
	ServerPort        string
	AdminEmail        string
	AdminPassword     string
	UploadDir         string
	CacheTTL          int
	LowStockThreshold int
	RateLimitRequests int
	RateLimitWindow   int
	ChatUnsendWindow  time.Duration
	Email             EmailConfig
	Site              SiteInfo
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Secure   bool
	From     string
}

// SiteInfo is the store identity printed on receipts.
type SiteInfo struct {
	Name    string `mapstructure:"name" json:"name"`
	Address string `mapstructure:"address" json:"address"`
	Phone   string `mapstructure:"phone" json:"phone"`
	Email   string `mapstructure:"email" json:"email"`
	TIN     string `mapstructure:"tin" json:"tin"`
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL must be set")
	ErrInsecureJWTSecret  = errors.New("JWT_SECRET must be set to a non-default value")
)

// devJWTSecret is only accepted when APP_ENV=development.
const devJWTSecret = "your_jwt_secret"

func Load() (*Config, error) {
	// Load .env file if exists
	godotenv.Load()

	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "production"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTExpiration:     time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 24*7)) * time.Hour,
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		ServerPort:        getEnv("PORT", "5000"),
		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@gasflow.ph"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", "admin123"),
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		CacheTTL:          getEnvAsInt("CACHE_TTL", 60),
		LowStockThreshold: getEnvAsInt("LOW_STOCK_THRESHOLD", 10),
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 900),
		ChatUnsendWindow:  time.Duration(getEnvAsInt("CHAT_UNSEND_WINDOW", 15)) * time.Minute,
		Email: EmailConfig{
			Host:     getEnv("EMAIL_HOST", "smtp.gmail.com"),
			Port:     getEnvAsInt("EMAIL_PORT", 587),
			User:     getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASS", ""),
			Secure:   getEnvAsBool("EMAIL_SECURE", false),
			From:     getEnv("EMAIL_FROM", "GasFlow <noreply@gasflow.ph>"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" || cfg.JWTSecret == devJWTSecret {
		if cfg.AppEnv != "development" {
			return nil, ErrInsecureJWTSecret
		}
		slog.Warn("using the development JWT secret")
		cfg.JWTSecret = devJWTSecret
	}

	cfg.Site = LoadSiteInfo(getEnv("SITE_CONFIG", "config/config.toml"))
	return cfg, nil
}

// LoadSiteInfo reads the [site] table of a TOML file. A missing file leaves
// the defaults in place.
func LoadSiteInfo(path string) SiteInfo {
	site := SiteInfo{
		Name:    "GasFlow LPG Delivery",
		Address: "",
		Phone:   "",
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		slog.Warn("site config not found, using defaults", "path", path, "error", err)
		return site
	}
	if err := v.UnmarshalKey("site", &site); err != nil {
		slog.Error("failed to unmarshal site info", "path", path, "error", err)
	}
	return site
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
