package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig                 `yaml:"app"`
	Gateways   map[string]GatewayConfig  `yaml:"gateways"`
	Providers  map[string]ProviderConfig `yaml:"providers"`
	Governance GovernanceConfig          `yaml:"governance"`
	Scheduler  SchedulerConfig           `yaml:"scheduler"`
}

type AppConfig struct {
	Name     string `yaml:"name"`
	DataDir  string `yaml:"data_dir"`
	SpoolDir string `yaml:"spool_dir"`
}

type GatewayConfig struct {
	Token   string `yaml:"token"`
	Enabled bool   `yaml:"enabled"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

type GovernanceConfig struct {
	// ConfirmationTTLSeconds is how long a pending sensitive action
	// stays confirmable. Zero means the 5-minute default.
	ConfirmationTTLSeconds int      `yaml:"confirmation_ttl_seconds"`
	DeniedActions          []string `yaml:"denied_actions"`
	DeniedPatterns         []string `yaml:"denied_patterns"`
}

type SchedulerConfig struct {
	// PollIntervalSeconds is how often due automations are checked.
	// Zero means the 30-second default.
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
}

// ConfirmationTTL returns the configured TTL as a duration, zero when
// unset.
func (g GovernanceConfig) ConfirmationTTL() time.Duration {
	return time.Duration(g.ConfirmationTTLSeconds) * time.Second
}

// PollInterval returns the configured interval as a duration, zero
// when unset.
func (s SchedulerConfig) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalSeconds) * time.Second
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "majordomo"
	}
	if c.App.DataDir == "" {
		c.App.DataDir = "data"
	}
	if c.App.SpoolDir == "" {
		c.App.SpoolDir = "spool"
	}
}

// DefaultProvider returns the first enabled provider.
func (c *Config) DefaultProvider() (string, ProviderConfig) {
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}

// TelegramConfig returns the telegram gateway config if enabled.
func (c *Config) TelegramConfig() (GatewayConfig, bool) {
	tg, ok := c.Gateways["telegram"]
	if ok && tg.Enabled {
		return tg, true
	}
	return GatewayConfig{}, false
}
