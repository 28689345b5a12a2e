package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Delivery failure policies for contact.on_delivery_failure.
const (
	DeliverySucceedAnyway = "succeed-anyway"
	DeliveryFail          = "fail"
)

type Config struct {
	Server struct {
		Port         string        `yaml:"port"`
		Host         string        `yaml:"host"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		MaxBodyBytes int64         `yaml:"max_body_bytes"`
	} `yaml:"server"`

	App struct {
		Env      string `yaml:"env"`
		Timezone string `yaml:"timezone"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Mail struct {
		Provider string `yaml:"provider"`
		From     string `yaml:"from"`
		To       string `yaml:"to"`
		// CredentialEnv names the environment variable holding the provider
		// secret. It is read on every request, never cached.
		CredentialEnv string        `yaml:"credential_env"`
		Timeout       time.Duration `yaml:"timeout"`
	} `yaml:"mail"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
	} `yaml:"smtp"`

	SES struct {
		Region      string `yaml:"region"`
		AccessKeyID string `yaml:"access_key_id"`
	} `yaml:"ses"`

	Contact struct {
		OnDeliveryFailure string `yaml:"on_delivery_failure"`
	} `yaml:"contact"`
}

// Default returns a config with every field set to its built-in value.
func Default() *Config {
	c := &Config{}
	c.Server.Port = "8080"
	c.Server.Host = "0.0.0.0"
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.MaxBodyBytes = 64 << 10

	c.App.Env = "development"
	c.App.Timezone = "America/Costa_Rica"
	c.App.LogLevel = "info"

	c.Mail.Provider = "resend"
	c.Mail.From = "ShowMarketing <onboarding@resend.dev>"
	c.Mail.CredentialEnv = "RESEND_API_KEY"
	c.Mail.Timeout = 10 * time.Second

	c.SMTP.Port = 587
	c.SES.Region = "us-east-1"

	c.Contact.OnDeliveryFailure = DeliverySucceedAnyway
	return c
}

// LoadConfig reads the optional dotenv files, then the YAML file at configPath
// (a missing file keeps the defaults), then applies environment overrides.
func LoadConfig(configPath string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	config := Default()

	if configPath != "" {
		file, err := os.Open(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Printf("config file %s not found, using defaults", configPath)
		case err != nil:
			return nil, err
		default:
			defer file.Close()
			decoder := yaml.NewDecoder(file)
			if err := decoder.Decode(config); err != nil {
				return nil, fmt.Errorf("decode %s: %w", configPath, err)
			}
		}
	}

	config.overrideWithEnvVars()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) overrideWithEnvVars() {
	if port := GetEnv("PORT", ""); port != "" {
		c.Server.Port = port
	}
	if host := GetEnv("HOST", ""); host != "" {
		c.Server.Host = host
	}

	if env := GetEnv("APP_ENV", ""); env != "" {
		c.App.Env = env
	} else if c.App.Env == "" {
		c.App.Env = "development"
	}
	if tz := GetEnv("APP_TIMEZONE", ""); tz != "" {
		c.App.Timezone = tz
	}
	if lvl := GetEnv("LOG_LEVEL", ""); lvl != "" {
		c.App.LogLevel = lvl
	}

	if provider := GetEnv("MAIL_PROVIDER", ""); provider != "" {
		c.Mail.Provider = provider
	}
	if from := GetEnv("MAIL_FROM", ""); from != "" {
		c.Mail.From = from
	}
	if to := GetEnv("CONTACT_EMAIL", ""); to != "" {
		c.Mail.To = to
	}
	if timeout := GetEnv("MAIL_TIMEOUT_SECONDS", ""); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			c.Mail.Timeout = time.Duration(secs) * time.Second
		}
	}

	if smtpHost := GetEnv("SMTP_HOST", ""); smtpHost != "" {
		c.SMTP.Host = smtpHost
	}
	if smtpUser := GetEnv("SMTP_USERNAME", ""); smtpUser != "" {
		c.SMTP.Username = smtpUser
	}

	if region := GetEnv("AWS_REGION", ""); region != "" {
		c.SES.Region = region
	}
	if keyID := GetEnv("AWS_ACCESS_KEY_ID", ""); keyID != "" {
		c.SES.AccessKeyID = keyID
	}

	if policy := GetEnv("CONTACT_ON_DELIVERY_FAILURE", ""); policy != "" {
		c.Contact.OnDeliveryFailure = policy
	}
}

// Validate rejects settings the server cannot run with. The provider
// credential is intentionally not checked here.
func (c *Config) Validate() error {
	switch c.Mail.Provider {
	case "resend", "smtp", "ses", "log":
	default:
		return fmt.Errorf("unknown mail provider %q", c.Mail.Provider)
	}
	switch c.Contact.OnDeliveryFailure {
	case DeliverySucceedAnyway, DeliveryFail:
	default:
		return fmt.Errorf("unknown delivery failure policy %q", c.Contact.OnDeliveryFailure)
	}
	if strings.TrimSpace(c.Mail.To) == "" {
		return errors.New("mail.to (CONTACT_EMAIL) is required")
	}
	if c.Mail.Provider == "smtp" && c.SMTP.Host == "" {
		return errors.New("smtp.host is required for the smtp provider")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("app.timezone: %w", err)
	}
	return nil
}

// Credential returns the provider secret from the environment, or "" when it
// is not configured.
func (c *Config) Credential() string {
	if c.Mail.CredentialEnv == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(c.Mail.CredentialEnv))
}

// Location resolves the timezone used to stamp outbound emails.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.App.Timezone)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
