package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config represents the radio2csv configuration
type Config struct {
	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		Console    bool   `yaml:"console"`
		Structured bool   `yaml:"structured"`
		Color      bool   `yaml:"color"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logging"`

	Archive struct {
		Enabled      bool   `yaml:"enabled"`
		DatabasePath string `yaml:"database_path"`
		MaxSnapshots int    `yaml:"max_snapshots"`
	} `yaml:"archive"`

	Web struct {
		Port        int    `yaml:"port"`
		BindAddress string `yaml:"bind_address"`
	} `yaml:"web"`

	Client struct {
		ServerURL string        `yaml:"server_url"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"client"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	var config Config
	config.Logging.Console = true
	config.Logging.Color = true
	config.applyDefaults()
	return &config
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Config{}
	config.Logging.Console = true
	config.Logging.Color = true
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSize == 0 {
		c.Logging.MaxSize = 10
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAge == 0 {
		c.Logging.MaxAge = 28
	}
	if c.Archive.DatabasePath == "" {
		c.Archive.DatabasePath = "radio2csv.db"
	}
	if c.Archive.MaxSnapshots == 0 {
		c.Archive.MaxSnapshots = 1000
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8090
	}
	if c.Web.BindAddress == "" {
		c.Web.BindAddress = "127.0.0.1"
	}
	if c.Client.ServerURL == "" {
		c.Client.ServerURL = fmt.Sprintf("http://localhost:%d", c.Web.Port)
	}
	if c.Client.Timeout == 0 {
		c.Client.Timeout = 10 * time.Second
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid web port: %d", c.Web.Port)
	}
	if c.Archive.MaxSnapshots < 0 {
		return fmt.Errorf("max snapshots cannot be negative")
	}
	if c.Archive.Enabled && c.Archive.DatabasePath == "" {
		return fmt.Errorf("archive database path is required when the archive is enabled")
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("client timeout cannot be negative")
	}
	return nil
}
