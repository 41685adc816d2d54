package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultAppName            = "ChatGPT Paywall"
	defaultListenAddr         = "127.0.0.1:8000"
	defaultHTTPTimeoutSeconds = 10
)

var ErrInvalidConfig = errors.New("invalid config")

// EnvConfig holds everything the service reads from the environment. It is
// built once at startup; nothing reads the environment after that.
type EnvConfig struct {
	StripePaymentLink      string `mapstructure:"STRIPE_PAYMENT_LINK"`
	StripeWebhookSecret    string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripeIgnoreAPIVersion bool   `mapstructure:"STRIPE_IGNORE_API_VERSION"`
	KVRestAPIURL           string `mapstructure:"KV_REST_API_URL"`
	KVRestAPIToken         string `mapstructure:"KV_REST_API_TOKEN"`
	PublicURL              string `mapstructure:"PUBLIC_URL"`
	AppName                string `mapstructure:"APP_NAME"`
	ListenAddr             string `mapstructure:"LISTEN_ADDR"`
	HTTPTimeoutSeconds     int    `mapstructure:"HTTP_TIMEOUT_SECONDS"`
}

var envKeys = []string{
	"STRIPE_PAYMENT_LINK",
	"STRIPE_WEBHOOK_SECRET",
	"STRIPE_IGNORE_API_VERSION",
	"KV_REST_API_URL",
	"KV_REST_API_TOKEN",
	"PUBLIC_URL",
	"APP_NAME",
	"LISTEN_ADDR",
	"HTTP_TIMEOUT_SECONDS",
}

// LoadEnvConfig reads fileName if it exists, then lets process environment
// variables override its values.
func LoadEnvConfig(fileName string) (*EnvConfig, error) {
	v := viper.New()
	v.SetConfigFile(fileName)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("STRIPE_IGNORE_API_VERSION", true)
	// AutomaticEnv only applies to keys viper already knows about
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(fileName); !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("read %s: %w", fileName, err)
		}
	}

	var cfg EnvConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ValidateWithDefaults fills optional values and reports every missing required key.
func (e *EnvConfig) ValidateWithDefaults() error {
	if e.AppName == "" {
		e.AppName = defaultAppName
	}
	if e.ListenAddr == "" {
		e.ListenAddr = defaultListenAddr
	}
	if e.HTTPTimeoutSeconds == 0 {
		e.HTTPTimeoutSeconds = defaultHTTPTimeoutSeconds
	}
	if e.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("%w: HTTP_TIMEOUT_SECONDS must be positive, got %d", ErrInvalidConfig, e.HTTPTimeoutSeconds)
	}

	var missing []string
	if e.StripePaymentLink == "" {
		missing = append(missing, "STRIPE_PAYMENT_LINK")
	}
	if e.StripeWebhookSecret == "" {
		missing = append(missing, "STRIPE_WEBHOOK_SECRET")
	}
	if e.KVRestAPIURL == "" {
		missing = append(missing, "KV_REST_API_URL")
	}
	if e.KVRestAPIToken == "" {
		missing = append(missing, "KV_REST_API_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}

	return nil
}

func (e *EnvConfig) HTTPTimeout() time.Duration {
	return time.Duration(e.HTTPTimeoutSeconds) * time.Second
}
