package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like SECURITY_CAPTCHA_TURNSTILE_SECRET
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay (config.development.yaml etc.), missing file is fine.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the first location that has one, so binaries
// and tests can run from nested directories.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "form-gateway"
	}
	if cfg.App.Version == "" {
		cfg.App.Version = "1.0.0"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}

	if cfg.Security.Captcha.Timeout == 0 {
		cfg.Security.Captcha.Timeout = 10000
	}

	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "smtp"
	}
	if cfg.Mail.SMTP.Port == 0 {
		cfg.Mail.SMTP.Port = 587
	}
	if cfg.Mail.Timeout == 0 {
		cfg.Mail.Timeout = 30000
	}

	if cfg.Alerts.SMS.PriorityThreshold == "" {
		cfg.Alerts.SMS.PriorityThreshold = "high"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// overrideFromEnv fills secrets that are commonly supplied as plain
// environment variables rather than config keys.
func overrideFromEnv(cfg *Config) {
	if cfg.Security.Captcha.TurnstileSecret == "" {
		if val := os.Getenv("TURNSTILE_SECRET_KEY"); val != "" {
			cfg.Security.Captcha.TurnstileSecret = val
		}
	}
	if cfg.Security.Captcha.RecaptchaSecret == "" {
		if val := os.Getenv("RECAPTCHA_SECRET_KEY"); val != "" {
			cfg.Security.Captcha.RecaptchaSecret = val
		}
	}
	if len(cfg.Security.AllowedDomains) == 0 {
		if val := os.Getenv("ALLOWED_DOMAINS"); val != "" {
			for _, d := range strings.Split(val, ",") {
				if d = strings.TrimSpace(d); d != "" {
					cfg.Security.AllowedDomains = append(cfg.Security.AllowedDomains, d)
				}
			}
		}
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		if val := os.Getenv("CORS_ORIGINS"); val != "" {
			for _, o := range strings.Split(val, ",") {
				if o = strings.TrimSpace(o); o != "" {
					cfg.Server.CORSOrigins = append(cfg.Server.CORSOrigins, o)
				}
			}
		}
	}
	if cfg.Mail.SMTP.Username == "" {
		if val := os.Getenv("SMTP_USERNAME"); val != "" {
			cfg.Mail.SMTP.Username = val
		}
	}
	if cfg.Mail.SMTP.Password == "" {
		if val := os.Getenv("SMTP_PASSWORD"); val != "" {
			cfg.Mail.SMTP.Password = strings.TrimSpace(val)
		}
	}
	if cfg.Mail.From == "" {
		if val := os.Getenv("MAIL_FROM"); val != "" {
			cfg.Mail.From = val
		}
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.Mail.From == "" {
		return fmt.Errorf("mail.from is required")
	}

	switch cfg.Mail.Provider {
	case "smtp":
		if cfg.Mail.SMTP.Host == "" {
			return fmt.Errorf("mail.smtp.host is required")
		}
		if cfg.Mail.SMTP.Port <= 0 || cfg.Mail.SMTP.Port > 65535 {
			return fmt.Errorf("mail.smtp.port must be between 1 and 65535")
		}
	case "ses":
		if cfg.Mail.SES.Region == "" {
			return fmt.Errorf("mail.ses.region is required")
		}
	default:
		return fmt.Errorf("mail.provider must be smtp or ses, got %q", cfg.Mail.Provider)
	}

	// Fail-closed by default: an empty domain allowlist must be an explicit
	// opt-in, never a silent default.
	if len(cfg.Security.AllowedDomains) == 0 && !cfg.Security.AllowAll {
		return fmt.Errorf("security.allowed_domains is required (or set security.allow_all to opt out of origin checks)")
	}

	if cfg.Alerts.SMS.Enabled {
		if cfg.Alerts.SMS.PhoneNumber == "" {
			return fmt.Errorf("alerts.sms.phone_number is required when sms alerts are enabled")
		}
		if cfg.Alerts.AWS.Region == "" {
			return fmt.Errorf("alerts.aws.region is required when sms alerts are enabled")
		}
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
