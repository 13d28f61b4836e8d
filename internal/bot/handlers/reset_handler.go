package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewResetHandler returns a handler for the /reset command.
func NewResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps}.Handle
}

// resetHandler clears the caller's profile and reactions, then walks them
// straight back into onboarding.
type resetHandler struct {
	deps HandlerDeps
}

func (h resetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reset")

	if update.Message == nil || update.Message.From == nil {
		log.ErrorContext(ctx, "Reset handler called with nil Message or From", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	log.InfoContext(ctx, "Handling /reset command", "chat_id", chatID, "user_id", userID)

	timeoutCtx, cancel := context.WithTimeout(ctx, destructiveOpTimeout)
	defer cancel()

	err := h.deps.Store.ResetProfile(timeoutCtx, userID)

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.WarnContext(ctx, "Reset operation timed out or was cancelled", "chat_id", chatID, "user_id", userID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ResetTimeoutMsg)
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to reset profile", "error", err, "user_id", userID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ErrorGeneralMsg)
		return
	}

	log.InfoContext(ctx, "Profile reset", "user_id", userID)
	sendText(ctx, b, log, chatID, h.deps.Config.Messages.ResetDoneMsg)

	beginConversation(ctx, b, h.deps, log, chatID, userID, update.Message.From.Username)
}
