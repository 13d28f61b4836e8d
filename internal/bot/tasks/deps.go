// Package tasks implements scheduled tasks for the svahabot Telegram bot.
package tasks

import (
	"log/slog"

	"github.com/kolotov/svahabot/internal/config"
	"github.com/kolotov/svahabot/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
