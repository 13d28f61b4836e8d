package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/kolotov/svahabot/internal/conversation"
)

// NewCancelHandler returns a handler for the /cancel command.
func NewCancelHandler(deps HandlerDeps) bot.HandlerFunc {
	return cancelHandler{deps}.Handle
}

type cancelHandler struct {
	deps HandlerDeps
}

func (h cancelHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "cancel")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Cancel handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	reply, err := h.deps.Conversation.Handle(ctx, userID, conversation.Event{Kind: conversation.EventCancel})
	if err != nil {
		log.ErrorContext(ctx, "Failed to cancel session", "error", err, "user_id", userID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ErrorGeneralMsg)
		return
	}
	if reply == nil {
		sendMarkup(ctx, b, log, chatID, h.deps.Config.Messages.NoSessionHintMsg, menuKeyboard())
		return
	}

	log.InfoContext(ctx, "Session cancelled", "user_id", userID)
	sendConversationReply(ctx, b, log, chatID, reply)
}
