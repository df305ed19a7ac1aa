package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the storefront client reads from its environment.
type Config struct {
	APIURL       string
	WebURL       string
	Home         string
	NotifyFor    time.Duration
	// ReleaseURL answers with the newest release as {"tag_name": ...}.
	// Empty disables the update check.
	ReleaseURL   string
	Logging      LoggingConfig
	EnvFileFound bool
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// CookiePath is where the session cookie jar lives.
func (c Config) CookiePath() string {
	return filepath.Join(c.Home, "cookies.json")
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	found := godotenv.Load() == nil

	home := getEnv("STOREFRONT_HOME", "")
	if home == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("get home dir: %w", err)
		}
		home = filepath.Join(userHome, ".storefront")
	}

	apiURL := strings.TrimRight(getEnv("STOREFRONT_API_URL", "http://localhost:3000"), "/")
	cfg := Config{
		APIURL:     apiURL,
		WebURL:     strings.TrimRight(getEnv("STOREFRONT_WEB_URL", apiURL), "/"),
		Home:       home,
		NotifyFor:  time.Duration(getEnvInt("STOREFRONT_NOTIFY_SECONDS", 4)) * time.Second,
		ReleaseURL: getEnv("STOREFRONT_RELEASE_URL", ""),
		Logging: LoggingConfig{
			Level:  getEnv("STOREFRONT_LOG_LEVEL", "info"),
			Format: getEnv("STOREFRONT_LOG_FORMAT", "text"),
			File:   getEnv("STOREFRONT_LOG_FILE", filepath.Join(home, "storefront.log")),
		},
		EnvFileFound: found,
	}
	if cfg.NotifyFor <= 0 {
		return Config{}, fmt.Errorf("STOREFRONT_NOTIFY_SECONDS must be positive")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		value, err := strconv.Atoi(strings.TrimSpace(valueStr))
		if err != nil {
			return defaultValue
		}
		return value
	}
	return defaultValue
}
