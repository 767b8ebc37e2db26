package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	SessionTTLHours  int
	AuthCookieSecure bool

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "svs-backend"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		SessionTTLHours:  getenvInt("SESSION_TTL_HOURS", 12),
		AuthCookieSecure: authCookieSecure,

		DBType:        getenv("DATABASE_TYPE", "postgres"),
		DBHost:        getenv("DATABASE_HOST", "localhost"),
		DBPort:        getenv("DATABASE_PORT", "5432"),
		DBName:        getenv("DATABASE_NAME", "svs"),
		DBUser:        getenv("DATABASE_USER", "postgres"),
		DBPassword:    getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:     getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn: getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn: getenvInt("DATABASE_MAX_OPEN_CONN", 25),

		BootstrapAdminEmail:    strings.TrimSpace(getenv("BOOTSTRAP_ADMIN_EMAIL", "")),
		BootstrapAdminPassword: getenv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
