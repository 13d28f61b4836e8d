package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewProfileHandler returns a handler for the /profile command.
func NewProfileHandler(deps HandlerDeps) bot.HandlerFunc {
	return profileHandler{deps}.Handle
}

type profileHandler struct {
	deps HandlerDeps
}

func (h profileHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "profile")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Profile handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if h.deps.Conversation.Active(userID) {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ActiveSessionMsg)
		return
	}

	log.InfoContext(ctx, "Handling /profile command", "chat_id", chatID, "user_id", userID)
	showOwnProfile(ctx, b, h.deps, log, chatID, userID)
}

// showOwnProfile renders the caller's own card, or explains what is missing.
func showOwnProfile(ctx context.Context, b *bot.Bot, deps HandlerDeps, log *slog.Logger, chatID, userID int64) {
	dbCtx, cancel := context.WithTimeout(ctx, dbOpTimeout)
	defer cancel()

	profile, err := deps.Store.GetProfile(dbCtx, userID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load profile", "error", err, "user_id", userID)
		sendText(ctx, b, log, chatID, deps.Config.Messages.ErrorGeneralMsg)
		return
	}
	if profile == nil {
		sendMarkup(ctx, b, log, chatID, deps.Config.Messages.ProfileMissingMsg, menuKeyboard())
		return
	}
	if !profile.Completed {
		sendMarkup(ctx, b, log, chatID, deps.Config.Messages.ProfileIncompleteMsg, menuKeyboard())
		return
	}

	SendProfileCard(ctx, b, deps, chatID, profile, FormatCard(profile), nil)
}
