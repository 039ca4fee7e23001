package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Registry RegistryConfig `mapstructure:"registry"`
	Security SecurityConfig `mapstructure:"security"`
	Mail     MailConfig     `mapstructure:"mail"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RegistryConfig points at the form registry document. An empty path selects
// the built-in default registry.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// --- Security Configuration ---

// SecurityConfig holds the request authorization settings: the allowed
// domain set and the CAPTCHA provider secrets. At most one provider is
// active; if both secrets are set, Turnstile wins.
type SecurityConfig struct {
	AllowedDomains []string       `mapstructure:"allowed_domains"`
	AllowAll       bool           `mapstructure:"allow_all"`
	Captcha        CaptchaSecrets `mapstructure:"captcha"`
}

type CaptchaSecrets struct {
	TurnstileSecret string `mapstructure:"turnstile_secret"`
	RecaptchaSecret string `mapstructure:"recaptcha_secret"`
	Timeout         int    `mapstructure:"timeout"` // milliseconds
}

// --- Mail Configuration ---

// MailConfig selects and configures the outbound mail transport.
type MailConfig struct {
	Provider string `mapstructure:"provider"` // "smtp" or "ses"
	From     string `mapstructure:"from"`

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseTLS   bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`

	SES struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"ses"`

	Timeout int `mapstructure:"timeout"` // milliseconds
}

// AlertsConfig holds settings for optional SMS alerts on high-priority
// submissions.
type AlertsConfig struct {
	SMS struct {
		Enabled           bool   `mapstructure:"enabled"`
		PhoneNumber       string `mapstructure:"phone_number"`
		PriorityThreshold string `mapstructure:"priority_threshold"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
