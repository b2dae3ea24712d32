// Package bioconfig loads bot configuration from an optional YAML file
// with environment variables layered on top. Environment always wins, so a
// deployment can keep tokens out of the file entirely.
package bioconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Slack    SlackConfig    `yaml:"slack"`
	Database DatabaseConfig `yaml:"database"`
	Bot      BotConfig      `yaml:"bot"`
}

type SlackConfig struct {
	// xoxb- bot token used for the Web API (auth.test, chat.postMessage,
	// files.info).
	BotToken string `yaml:"bot_token" env:"SLACK_BOT_TOKEN"`
	// xapp- app-level token used for the Socket Mode connection.
	AppToken string `yaml:"app_token" env:"SLACK_APP_TOKEN"`
	Debug    bool   `yaml:"debug" env:"BIOBOT_SLACK_DEBUG"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"BIOBOT_DB_PATH"`
}

type BotConfig struct {
	// Organization is interpolated into the role question of the add bio
	// interview.
	Organization string        `yaml:"organization" env:"BIOBOT_ORGANIZATION"`
	PollInterval time.Duration `yaml:"poll_interval" env:"BIOBOT_POLL_INTERVAL"`
	LogLevel     string        `yaml:"log_level" env:"BIOBOT_LOG_LEVEL"`
}

// Load reads the YAML file at path (skipped when path is empty), overlays
// the environment, and validates required fields.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	// No envDefault tags: they would overwrite file-provided values when
	// the variable is unset. Defaults are applied after the overlay.
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "biobot.db"
	}
	if cfg.Bot.PollInterval <= 0 {
		cfg.Bot.PollInterval = 200 * time.Millisecond
	}
	if cfg.Bot.LogLevel == "" {
		cfg.Bot.LogLevel = "info"
	}
	if cfg.Slack.BotToken == "" {
		return nil, fmt.Errorf("slack bot token is required (SLACK_BOT_TOKEN)")
	}
	if cfg.Slack.AppToken == "" {
		return nil, fmt.Errorf("slack app token is required (SLACK_APP_TOKEN)")
	}
	return &cfg, nil
}
