package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"

	constants "beszeltrmnl/config"
	"beszeltrmnl/internal/credentials"

	"github.com/spf13/viper"
)

// Config represents the service configuration
type Config struct {
	Port               int    `mapstructure:"port"`
	PocketBaseURL      string `mapstructure:"pocketbase_url"`
	PocketBaseEmail    string `mapstructure:"pocketbase_email"`
	PocketBasePassword string `mapstructure:"pocketbase_password"`
	PluginURL          string `mapstructure:"private_plugin_url"`
	PrometheusAddr     string `mapstructure:"prometheus_addr"`
	OTLPEndpoint       string `mapstructure:"otlp_endpoint"`
	LogFile            string `mapstructure:"log_file"`
	Debug              bool   `mapstructure:"debug"`
}

// envKeys maps config keys to the environment variables they are read from
var envKeys = map[string]string{
	"port":                "PORT",
	"pocketbase_url":      "POCKETBASE_URL",
	"pocketbase_email":    "POCKETBASE_EMAIL",
	"pocketbase_password": "POCKETBASE_PASSWORD",
	"private_plugin_url":  "PRIVATE_PLUGIN_URL",
	"prometheus_addr":     "PROMETHEUS_ADDR",
	"otlp_endpoint":       "OTLP_ENDPOINT",
	"log_file":            "LOG_FILE",
	"debug":               "DEBUG",
}

// LoadConfig loads configuration from the .env file in the working directory and the environment
func LoadConfig() (*Config, error) {
	return Load(constants.DOTENV_FILE)
}

// Load reads defaults, then dotenvPath (if it exists), then the process environment.
// An empty dotenvPath skips the file.
func Load(dotenvPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", constants.DEFAULT_PORT)
	v.SetDefault("debug", false)

	if dotenvPath != "" {
		v.SetConfigFile(dotenvPath)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", dotenvPath, err)
		}
	}

	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode: %w", err)
	}

	cfg.PocketBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PocketBaseURL), "/")
	cfg.PluginURL = strings.TrimSpace(cfg.PluginURL)

	return &cfg, nil
}

// Validate rejects malformed values. Missing credentials are reported by Missing instead.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.PocketBaseURL != "" {
		if err := validateHTTPURL(c.PocketBaseURL); err != nil {
			return fmt.Errorf("POCKETBASE_URL: %w", err)
		}
	}
	if c.RelayEnabled() {
		if err := validateHTTPURL(c.PluginURL); err != nil {
			return fmt.Errorf("PRIVATE_PLUGIN_URL: %w", err)
		}
	}
	if c.PrometheusAddr != "" {
		if _, _, err := net.SplitHostPort(c.PrometheusAddr); err != nil {
			return fmt.Errorf("PROMETHEUS_ADDR: %w", err)
		}
	}
	return nil
}

// Missing lists the required PocketBase settings that are unset
func (c *Config) Missing() []string {
	var missing []string
	if c.PocketBaseURL == "" {
		missing = append(missing, envKeys["pocketbase_url"])
	}
	if c.PocketBaseEmail == "" {
		missing = append(missing, envKeys["pocketbase_email"])
	}
	if c.PocketBasePassword == "" {
		missing = append(missing, envKeys["pocketbase_password"])
	}
	return missing
}

// ResolvePassword fills an empty PocketBase password from the secret store
func (c *Config) ResolvePassword(store credentials.Store) error {
	if c.PocketBasePassword != "" || store == nil {
		return nil
	}
	secret, err := store.GetSecret(constants.KEYRING_PASSWORD_KEY)
	if err != nil {
		if errors.Is(err, credentials.ErrSecretNotFound) {
			return nil
		}
		return fmt.Errorf("config: read password from keyring: %w", err)
	}
	c.PocketBasePassword = secret
	return nil
}

// RelayEnabled reports whether a real TRMNL plugin URL is configured
func (c *Config) RelayEnabled() bool {
	return c.PluginURL != "" && c.PluginURL != constants.PLUGIN_URL_PLACEHOLDER
}

// ListenAddr is the address the HTTP surface binds to
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(constants.DEFAULT_LISTEN_HOST, strconv.Itoa(c.Port))
}

// MaskedPassword returns the password with everything but its length hidden
func (c *Config) MaskedPassword() string {
	if c.PocketBasePassword == "" {
		return ""
	}
	return strings.Repeat("*", len(c.PocketBasePassword))
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
