package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// defaultOfficerID matches the seeded system officer row; override with
// DEFAULT_OFFICER_ID when the schema seeds a different one.
const defaultOfficerID = "00000000-0000-0000-0000-0000000000a1"

// Config captures everything main needs to wire the service.
type Config struct {
	Addr             string
	DatabaseURL      string
	BotToken         string
	DefaultOfficerID uuid.UUID
	LogLevel         slog.Level
}

// FromEnv builds a Config from environment variables so main stays lean.
// An empty DATABASE_URL selects the seeded in-memory store; an empty
// BOT_TOKEN disables the Telegram bot.
func FromEnv() (Config, error) {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	officerEnv := os.Getenv("DEFAULT_OFFICER_ID")
	if officerEnv == "" {
		officerEnv = defaultOfficerID
	}
	officerID, err := uuid.Parse(officerEnv)
	if err != nil {
		return Config{}, fmt.Errorf("parse DEFAULT_OFFICER_ID: %w", err)
	}

	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	return Config{
		Addr:             addr,
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		BotToken:         os.Getenv("BOT_TOKEN"),
		DefaultOfficerID: officerID,
		LogLevel:         level,
	}, nil
}
