package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

// Environment values recognized in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Server struct {
	ListenAddress  string   `yaml:"listenAddress"`
	TrustedProxies []string `yaml:"trustedProxies"` // IPs/CIDRs trusted for X-Forwarded-For headers
}

// Mail holds the upstream SMTP relay configuration. The mailbox password is
// deliberately not part of the YAML schema; it is only ever read from the
// MAIL_PASSWORD environment variable.
type Mail struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Username      string `yaml:"username"`
	SenderAddress string `yaml:"senderAddress"`
	SenderName    string `yaml:"senderName"`
	// ReplyTo is the default Reply-To address when a request does not
	// provide its own override.
	ReplyTo string `yaml:"replyTo"`
	// BounceAddress receives non-delivery reports (Return-Path).
	BounceAddress string `yaml:"bounceAddress"`
	// ListUnsubscribe is the mailto target advertised in the
	// List-Unsubscribe header of every outbound message.
	ListUnsubscribe string `yaml:"listUnsubscribe"`

	// MaxReconnectAttempts caps the startup retry ladder.
	MaxReconnectAttempts int `yaml:"maxReconnectAttempts"`
	// BackoffStepMs is the linear backoff step: retry n waits n*step.
	BackoffStepMs int `yaml:"backoffStepMs"`
	// RetryOnMissingSecret controls whether a missing mailbox password
	// consumes retry budget or fails initialization immediately.
	RetryOnMissingSecret bool `yaml:"retryOnMissingSecret"`

	InsecureSkipVerify bool `yaml:"insecureSkipVerify"`

	Password string `yaml:"-"`
}

type Frontend struct {
	// AllowedOrigins is the fixed CORS allow-list of front-end origins.
	AllowedOrigins []string `yaml:"allowedOrigins"`
	BrandingName   string   `yaml:"brandingName"`
}

type Config struct {
	Server   Server   `yaml:"server"`
	Mail     Mail     `yaml:"mail"`
	Frontend Frontend `yaml:"frontend"`

	// Environment is development or production, from APP_ENV.
	Environment string `yaml:"-"`
}

// Load reads the mail service configuration from a YAML file. If configPath
// is empty, it defaults to "./config.yaml"; the path can also be overridden
// via the MAILSERVICE_CONFIG_PATH environment variable. Environment
// overrides and defaults are applied on top of whatever the file provides.
func Load(configPath ...string) (Config, error) {
	path := resolvePath(configPath...)

	var config Config

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("trying to open mail service config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return config, fmt.Errorf("error unmarshaling YAML %s: %v", path, err)
	}

	config.applyEnv()
	config.Defaults()
	return config, nil
}

// LoadOrDefaults behaves like Load but tolerates a missing config file: the
// service can run purely on environment variables and built-in defaults,
// which is how the original deployment operated.
func LoadOrDefaults(configPath ...string) (Config, error) {
	if _, err := os.Stat(resolvePath(configPath...)); os.IsNotExist(err) {
		var config Config
		config.applyEnv()
		config.Defaults()
		return config, nil
	}
	return Load(configPath...)
}

func resolvePath(configPath ...string) string {
	if len(configPath) > 0 && configPath[0] != "" {
		return configPath[0]
	}
	if p := os.Getenv("MAILSERVICE_CONFIG_PATH"); p != "" {
		return p
	}
	return "./config.yaml"
}

// applyEnv layers the environment-provided settings over the file contents.
// MAIL_PASSWORD is the required mailbox secret; PORT and APP_ENV follow the
// hosting platform's conventions.
func (c *Config) applyEnv() {
	c.Mail.Password = os.Getenv("MAIL_PASSWORD")

	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			c.Server.ListenAddress = fmt.Sprintf(":%d", n)
		}
	}

	c.Environment = os.Getenv("APP_ENV")
}

// Defaults fills in zero values with the fixed relay parameters.
func (c *Config) Defaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":3000"
	}
	if c.Mail.Host == "" {
		c.Mail.Host = "smtp.zoho.com"
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = 465
	}
	if c.Mail.Username == "" {
		c.Mail.Username = "noreply@pensionpilot.co.ke"
	}
	if c.Mail.SenderAddress == "" {
		c.Mail.SenderAddress = c.Mail.Username
	}
	if c.Mail.SenderName == "" {
		c.Mail.SenderName = c.Frontend.BrandingName
	}
	if c.Mail.SenderName == "" {
		c.Mail.SenderName = "Pension Pilot"
	}
	if c.Mail.ReplyTo == "" {
		c.Mail.ReplyTo = "support@pensionpilot.co.ke"
	}
	if c.Mail.BounceAddress == "" {
		c.Mail.BounceAddress = "bounces@pensionpilot.co.ke"
	}
	if c.Mail.ListUnsubscribe == "" {
		c.Mail.ListUnsubscribe = "unsubscribe@pensionpilot.co.ke"
	}
	if c.Mail.MaxReconnectAttempts == 0 {
		c.Mail.MaxReconnectAttempts = 5
	}
	if c.Mail.BackoffStepMs == 0 {
		c.Mail.BackoffStepMs = 5000
	}
	if len(c.Frontend.AllowedOrigins) == 0 {
		c.Frontend.AllowedOrigins = []string{
			"https://pensionpilot.co.ke",
			"https://www.pensionpilot.co.ke",
			"http://localhost:5173",
		}
	}
	if c.Frontend.BrandingName == "" {
		c.Frontend.BrandingName = "Pension Pilot"
	}
	if c.Environment == "" {
		c.Environment = EnvDevelopment
	}
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
