// Package config loads and persists the lntools configuration. The file
// lives at ~/.config/lntools/lntools.yaml and is created with defaults on
// first load; LNTOOLS_* environment variables override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"lntools/logging"
	"lntools/table"
)

// envPrefix namespaces the override variables (LNTOOLS_ENGINE, ...).
const envPrefix = "LNTOOLS"

// Config is the complete library configuration.
type Config struct {
	// Engine is the default tabular backend for directory reads.
	Engine  string         `yaml:"engine" envconfig:"ENGINE"`
	Logging logging.Config `yaml:"logging" envconfig:"LOGGING"`
	Mail    MailConfig     `yaml:"mail" envconfig:"MAIL"`
	Notify  NotifyConfig   `yaml:"notify" envconfig:"NOTIFY"`
	// DB holds opaque connection parameters for downstream tools; lntools
	// itself never opens a connection.
	DB map[string]string `yaml:"db" envconfig:"DB"`
}

// MailConfig contains the SMTP account settings.
type MailConfig struct {
	Server   string `yaml:"server" envconfig:"SERVER"`
	Port     int    `yaml:"port" envconfig:"PORT"`
	Username string `yaml:"username" envconfig:"USERNAME"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
}

// NotifyConfig contains the chat-webhook endpoints.
type NotifyConfig struct {
	FeishuWebhook   string  `yaml:"feishu_webhook" envconfig:"FEISHU_WEBHOOK"`
	DingTalkWebhook string  `yaml:"dingtalk_webhook" envconfig:"DINGTALK_WEBHOOK"`
	RateLimit       float64 `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine:  string(table.EngineRecords),
		Logging: logging.DefaultConfig(),
		Mail:    MailConfig{Port: 25},
		Notify:  NotifyConfig{RateLimit: 5},
		DB:      map[string]string{},
	}
}

// Path returns the config file location, honoring an explicit
// LNTOOLS_CONFIG override.
func Path() (string, error) {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "lntools", "lntools.yaml"), nil
}

// Load reads the configuration: defaults, then the YAML file, then
// environment overrides. A missing file is created and populated with
// defaults so the location is discoverable.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load against an explicit file path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := WriteYAML(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to create config file: %w", err)
		}
	} else {
		if err := ReadYAML(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment wins over the file. Fields without a set variable are
	// left untouched.
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := table.ParseEngine(c.Engine); err != nil {
		return err
	}
	if c.Mail.Port < 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("invalid mail port: %d", c.Mail.Port)
	}
	if c.Notify.RateLimit < 0 {
		return fmt.Errorf("invalid notify rate limit: %v", c.Notify.RateLimit)
	}
	return nil
}

// Save persists the configuration back to its default location.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return WriteYAML(path, c)
}
