package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// SMTP Relay Configuration
	SMTP struct {
		Host string
		Port int
	}

	// Delivery Configuration
	Delivery struct {
		Method string // "smtp" or "mailgun"
	}

	// Mailgun Configuration (optional)
	Mailgun struct {
		APIKey string
		Domain string
	}
}

// LoadConfig loads the configuration from environment variables and config files
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read config file
	v.SetConfigName("config")           // name of config file (without extension)
	v.SetConfigType("yaml")             // type of config file
	v.AddConfigPath(".")                // current directory
	v.AddConfigPath("$HOME/.mailblast") // home directory
	v.AddConfigPath("/etc/mailblast/")  // system directory

	// Read config file (if exists)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - that's ok, we'll use env vars and defaults
	}

	// Environment variables
	v.SetEnvPrefix("MAILBLAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Delivery.Method != "smtp" && cfg.Delivery.Method != "mailgun" {
		return nil, fmt.Errorf("unknown delivery method: %s", cfg.Delivery.Method)
	}
	if cfg.Delivery.Method == "mailgun" && cfg.Mailgun.Domain == "" {
		return nil, fmt.Errorf("mailgun.domain is required when delivery method is mailgun")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// SMTP relay defaults
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)

	// Delivery defaults
	v.SetDefault("delivery.method", "smtp")

	// Mailgun defaults
	v.SetDefault("mailgun.apikey", "")
	v.SetDefault("mailgun.domain", "")
}
