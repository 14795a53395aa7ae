package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the task core.
type Config struct {
	DatabaseURL     string
	ResweepInterval time.Duration // how often reminders are re-derived from the store
	DigestTime      string        // HH:MM local time; empty disables the daily digest
	TelegramToken   string        // empty means log-only notifications
	TelegramChatID  int64
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ResweepInterval: parseInterval(strings.TrimSpace(os.Getenv("RESWEEP_INTERVAL_HOURS"))),
		DigestTime:      strings.TrimSpace(os.Getenv("DIGEST_TIME")),
		TelegramToken:   strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "todo.db"
	}

	if cfg.ResweepInterval == 0 {
		cfg.ResweepInterval = 6 * time.Hour
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
