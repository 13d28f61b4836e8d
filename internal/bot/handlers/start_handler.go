package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler opens a profile session, restarting any session in flight.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "user_id", userID)

	if !h.deps.Conversation.Active(userID) {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.Welcome)
	}

	beginConversation(ctx, b, h.deps, log, chatID, userID, update.Message.From.Username)
}

// beginConversation opens a profile session and sends its first prompt.
// /start, the edit menu entry, and the post-reset restart all route through
// here.
func beginConversation(ctx context.Context, b *bot.Bot, deps HandlerDeps, log *slog.Logger, chatID, userID int64, username string) {
	dbCtx, cancel := context.WithTimeout(ctx, dbOpTimeout)
	defer cancel()

	reply, err := deps.Conversation.Begin(dbCtx, userID, username)
	if err != nil {
		log.ErrorContext(ctx, "Failed to begin profile session", "error", err, "user_id", userID)
		sendText(ctx, b, log, chatID, deps.Config.Messages.ErrorGeneralMsg)
		return
	}

	sendConversationReply(ctx, b, log, chatID, reply)
}
