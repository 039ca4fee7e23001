package captcha

import (
	"fmt"
	"time"
)

type Config struct {
	TurnstileSecret string        `mapstructure:"turnstile_secret"`
	RecaptchaSecret string        `mapstructure:"recaptcha_secret"`
	Timeout         time.Duration `mapstructure:"timeout"`

	// Endpoint overrides the provider verification URL. Used in tests.
	Endpoint string `mapstructure:"endpoint"`
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
