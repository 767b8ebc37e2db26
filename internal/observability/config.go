package observability

import (
	"os"
	"strings"

	"github.com/lionnelpat/svs-backend-sub002/internal/config"
)

// Config holds observability configuration derived from environment variables.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "svs-backend"
	}

	return Config{
		ServiceName: serviceName,
		Environment: strings.TrimSpace(getenv("DEPLOYMENT_ENV", cfg.Environment)),
		Version:     strings.TrimSpace(getenv("SERVICE_VERSION", cfg.AppVersion)),
		LogLevel:    strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
		LogFormat:   strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
	}
}

func (c Config) Debug() bool {
	if c.LogLevel == "debug" {
		return true
	}
	return isDevEnv(c.Environment)
}

func isDevEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func getenv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}
