package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSupportHandler returns a handler for the /support command.
func NewSupportHandler(deps HandlerDeps) bot.HandlerFunc {
	return supportHandler{deps}.Handle
}

type supportHandler struct {
	deps HandlerDeps
}

func (h supportHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "support")

	if update.Message == nil {
		log.WarnContext(ctx, "Support handler received update with nil message", "update_id", update.ID)
		return
	}

	log.DebugContext(ctx, "Handling /support command", "chat_id", update.Message.Chat.ID)
	sendText(ctx, b, log, update.Message.Chat.ID, h.deps.Config.Messages.Support)
}
