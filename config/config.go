// config/config.go - Application configuration (environment + optional config file)
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// PlaceholderAPIKey is the value shipped in config.template.yaml.
const PlaceholderAPIKey = "YOUR_STEAM_API_KEY"

const (
	defaultConfigFile   = "config.yaml"
	templateConfigFile  = "config.template.yaml"
	DefaultSteamBaseURL = "http://api.steampowered.com"
)

// Config is built once at startup and handed to the components that need it.
type Config struct {
	SteamAPIKey      string
	SteamBaseURL     string
	SteamLanguage    string
	SteamHTTPTimeout time.Duration

	Port        string
	AppEnv      string
	CORSOrigins string
	LogLevel    string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// ConfigFile is the file the values were read from, empty when none was found.
	ConfigFile string
}

var ErrPlaceholderKey = errors.New("please set your steam api key (STEAM_API_KEY or steam_api_key in config.yaml)")

// Load reads configuration from the given file (or the first of config.yaml,
// config.template.yaml that exists) and lets environment variables override it.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("STEAM_API_BASE_URL", DefaultSteamBaseURL)
	v.SetDefault("STEAM_LANGUAGE", "en")
	v.SetDefault("STEAM_HTTP_TIMEOUT", "0s")
	v.SetDefault("PORT", "8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.AutomaticEnv()

	path, err := resolveConfigFile(configFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		SteamAPIKey:      strings.TrimSpace(v.GetString("STEAM_API_KEY")),
		SteamBaseURL:     strings.TrimSuffix(v.GetString("STEAM_API_BASE_URL"), "/"),
		SteamLanguage:    v.GetString("STEAM_LANGUAGE"),
		SteamHTTPTimeout: v.GetDuration("STEAM_HTTP_TIMEOUT"),
		Port:             v.GetString("PORT"),
		AppEnv:           v.GetString("APP_ENV"),
		CORSOrigins:      v.GetString("CORS_ORIGINS"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		RateLimitEnabled: v.GetBool("RATE_LIMIT_ENABLED"),
		RateLimitRPS:     v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:   v.GetInt("RATE_LIMIT_BURST"),
		ConfigFile:       path,
	}
	return cfg, nil
}

func resolveConfigFile(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv("CONFIG_FILE")
	}
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}
	for _, candidate := range []string{defaultConfigFile, templateConfigFile} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// Validate checks the values startup cannot continue without.
func (c *Config) Validate() error {
	if c.SteamAPIKey == "" || c.SteamAPIKey == PlaceholderAPIKey {
		return ErrPlaceholderKey
	}
	if c.SteamBaseURL == "" {
		return errors.New("STEAM_API_BASE_URL must not be empty")
	}
	if c.SteamHTTPTimeout < 0 {
		return errors.New("STEAM_HTTP_TIMEOUT must not be negative")
	}
	if c.RateLimitEnabled && (c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0) {
		return errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
