// Package config loads the settings shared by the duffel commands and
// functions from a .env file, a duffel.yaml file and DUFFEL_ environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fabianMendez/duffel"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

type Config struct {
	AccessToken       string
	BaseURL           string
	Version           string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
	WebhookSecret     string
	NotifyEmail       string
	NotifyPhone       string
}

var (
	ErrInvalidTimeout    = errors.New("timeout must be positive")
	ErrInvalidMaxRetries = errors.New("max_retries must not be negative")
	ErrInvalidRate       = errors.New("requests_per_second must not be negative")
)

// Load reads configFile when given, otherwise duffel.yaml from the working
// directory or $HOME/.duffel if one exists.
func Load(configFile string) (Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("base_url", duffel.DefaultBaseURL)
	v.SetDefault("version", duffel.DefaultVersion)
	v.SetDefault("timeout", "60s")
	v.SetDefault("max_retries", 0)
	v.SetDefault("requests_per_second", 0)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("duffel")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.duffel")
	}

	v.SetEnvPrefix("DUFFEL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read config: %w", err)
		}
	}

	cfg := Config{
		AccessToken:       v.GetString("access_token"),
		BaseURL:           v.GetString("base_url"),
		Version:           v.GetString("version"),
		Timeout:           v.GetDuration("timeout"),
		MaxRetries:        v.GetInt("max_retries"),
		RequestsPerSecond: v.GetFloat64("requests_per_second"),
		WebhookSecret:     v.GetString("webhook_secret"),
		NotifyEmail:       v.GetString("notify_email"),
		NotifyPhone:       v.GetString("notify_phone"),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxRetries < 0 {
		return ErrInvalidMaxRetries
	}
	if c.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}
	return nil
}

// ClientOptions turns the configuration into options for duffel.NewClient.
// An empty access token leaves the client to read DUFFEL_ACCESS_TOKEN.
func (c Config) ClientOptions(logger *log.Logger) []duffel.Option {
	opts := []duffel.Option{
		duffel.WithBaseURL(c.BaseURL),
		duffel.WithVersion(c.Version),
		duffel.WithTimeout(c.Timeout),
		duffel.WithLogger(logger),
	}
	if c.AccessToken != "" {
		opts = append(opts, duffel.WithAccessToken(c.AccessToken))
	}
	if c.MaxRetries > 0 {
		opts = append(opts, duffel.WithRetry(c.MaxRetries, 0))
	}
	if c.RequestsPerSecond > 0 {
		opts = append(opts, duffel.WithRateLimiter(rate.NewLimiter(rate.Limit(c.RequestsPerSecond), 1)))
	}
	return opts
}
