package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Callback data for the delete confirmation buttons.
const (
	CallbackDeleteYes = "delete_yes"
	CallbackDeleteNo  = "delete_no"
)

// NewDeleteHandler returns a handler for the /delete command. It only asks
// for confirmation; the callback handlers below do the work.
func NewDeleteHandler(deps HandlerDeps) bot.HandlerFunc {
	return deleteHandler{deps}.Handle
}

type deleteHandler struct {
	deps HandlerDeps
}

func (h deleteHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "delete")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Delete handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if h.deps.Conversation.Active(userID) {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ActiveSessionMsg)
		return
	}

	log.InfoContext(ctx, "Handling /delete command", "chat_id", chatID, "user_id", userID)

	markup := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "Yes, delete it", CallbackData: CallbackDeleteYes},
			{Text: "No, keep it", CallbackData: CallbackDeleteNo},
		}},
	}
	sendMarkup(ctx, b, log, chatID, h.deps.Config.Messages.DeleteConfirmMsg, markup)
}

// NewDeleteConfirmHandler returns a handler for the delete confirmation
// button. It erases the caller's profile, reactions, and matches.
func NewDeleteConfirmHandler(deps HandlerDeps) bot.HandlerFunc {
	return deleteConfirmHandler{deps}.Handle
}

type deleteConfirmHandler struct {
	deps HandlerDeps
}

func (h deleteConfirmHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "delete_confirm")

	cb := update.CallbackQuery
	if cb == nil {
		log.WarnContext(ctx, "Delete confirm handler received update without callback query", "update_id", update.ID)
		return
	}

	answerCallback(ctx, b, log, cb.ID)

	userID := cb.From.ID
	chatID := callbackChatID(cb)
	log.InfoContext(ctx, "User confirmed profile deletion", "chat_id", chatID, "user_id", userID)

	timeoutCtx, cancel := context.WithTimeout(ctx, destructiveOpTimeout)
	defer cancel()

	err := h.deps.Store.DeleteProfile(timeoutCtx, userID)

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.WarnContext(ctx, "Delete operation timed out or was cancelled", "user_id", userID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ErrorGeneralMsg)
		return
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to delete profile", "error", err, "user_id", userID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ErrorGeneralMsg)
		return
	}

	log.InfoContext(ctx, "Profile deleted", "user_id", userID)
	sendMarkup(ctx, b, log, chatID, h.deps.Config.Messages.DeleteDoneMsg,
		&models.ReplyKeyboardRemove{RemoveKeyboard: true})
}

// NewDeleteCancelHandler returns a handler for the delete rejection button.
func NewDeleteCancelHandler(deps HandlerDeps) bot.HandlerFunc {
	return deleteCancelHandler{deps}.Handle
}

type deleteCancelHandler struct {
	deps HandlerDeps
}

func (h deleteCancelHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "delete_cancel")

	cb := update.CallbackQuery
	if cb == nil {
		log.WarnContext(ctx, "Delete cancel handler received update without callback query", "update_id", update.ID)
		return
	}

	answerCallback(ctx, b, log, cb.ID)

	log.DebugContext(ctx, "User cancelled profile deletion", "user_id", cb.From.ID)
	sendMarkup(ctx, b, log, callbackChatID(cb), h.deps.Config.Messages.DeleteCancelledMsg, menuKeyboard())
}
