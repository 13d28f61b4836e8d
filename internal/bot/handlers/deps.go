package handlers

import (
	"log/slog"

	"github.com/kolotov/svahabot/internal/config"
	"github.com/kolotov/svahabot/internal/conversation"
	"github.com/kolotov/svahabot/internal/database"
	"github.com/kolotov/svahabot/internal/match"
	"github.com/kolotov/svahabot/internal/media"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger       *slog.Logger
	Config       *config.Config
	Store        database.Store
	Conversation *conversation.Controller
	Engine       *match.Engine
	Media        *media.Cache
}
