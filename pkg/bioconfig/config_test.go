package bioconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
slack:
  bot_token: xoxb-file
  app_token: xapp-file
bot:
  organization: OANDA
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Slack.BotToken != "xoxb-file" || cfg.Slack.AppToken != "xapp-file" {
		t.Errorf("tokens not read from file: %+v", cfg.Slack)
	}
	if cfg.Bot.Organization != "OANDA" {
		t.Errorf("organization not read from file: %q", cfg.Bot.Organization)
	}
	if cfg.Database.Path != "biobot.db" {
		t.Errorf("default db path not applied: %q", cfg.Database.Path)
	}
	if cfg.Bot.PollInterval != 200*time.Millisecond {
		t.Errorf("default poll interval not applied: %v", cfg.Bot.PollInterval)
	}
	if cfg.Bot.LogLevel != "info" {
		t.Errorf("default log level not applied: %q", cfg.Bot.LogLevel)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
slack:
  bot_token: xoxb-file
  app_token: xapp-file
database:
  path: /data/file.db
`)
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-env")
	t.Setenv("BIOBOT_DB_PATH", "/data/env.db")
	t.Setenv("BIOBOT_POLL_INTERVAL", "50ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Slack.BotToken != "xoxb-env" {
		t.Errorf("env should override file token, got %q", cfg.Slack.BotToken)
	}
	if cfg.Slack.AppToken != "xapp-file" {
		t.Errorf("file value should survive when env is unset, got %q", cfg.Slack.AppToken)
	}
	if cfg.Database.Path != "/data/env.db" {
		t.Errorf("env should override file db path, got %q", cfg.Database.Path)
	}
	if cfg.Bot.PollInterval != 50*time.Millisecond {
		t.Errorf("env poll interval not applied: %v", cfg.Bot.PollInterval)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "xoxb-env")
	t.Setenv("SLACK_APP_TOKEN", "xapp-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Slack.BotToken != "xoxb-env" || cfg.Slack.AppToken != "xapp-env" {
		t.Errorf("tokens not read from env: %+v", cfg.Slack)
	}
}

func TestLoadRequiresTokens(t *testing.T) {
	t.Setenv("SLACK_BOT_TOKEN", "")
	t.Setenv("SLACK_APP_TOKEN", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected missing token error")
	}

	t.Setenv("SLACK_BOT_TOKEN", "xoxb-env")
	if _, err := Load(""); err == nil {
		t.Fatal("expected missing app token error")
	}
}
