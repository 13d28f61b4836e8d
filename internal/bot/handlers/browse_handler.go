package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewBrowseHandler returns a handler for the /browse command.
func NewBrowseHandler(deps HandlerDeps) bot.HandlerFunc {
	return browseHandler{deps}.Handle
}

type browseHandler struct {
	deps HandlerDeps
}

func (h browseHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "browse")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Browse handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID

	if h.deps.Conversation.Active(userID) {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ActiveSessionMsg)
		return
	}

	log.InfoContext(ctx, "Handling /browse command", "chat_id", chatID, "user_id", userID)
	sendNextCandidate(ctx, b, h.deps, log, chatID, userID)
}

// sendNextCandidate picks the viewer's next unseen candidate and renders its
// card with reaction buttons. /browse and the post-reaction advance both
// route through here.
func sendNextCandidate(ctx context.Context, b *bot.Bot, deps HandlerDeps, log *slog.Logger, chatID, viewerID int64) {
	dbCtx, cancel := context.WithTimeout(ctx, dbOpTimeout)
	defer cancel()

	viewer, err := deps.Store.GetProfile(dbCtx, viewerID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load viewer profile", "error", err, "user_id", viewerID)
		sendText(ctx, b, log, chatID, deps.Config.Messages.ErrorGeneralMsg)
		return
	}
	if viewer == nil {
		sendMarkup(ctx, b, log, chatID, deps.Config.Messages.ProfileMissingMsg, menuKeyboard())
		return
	}
	if !viewer.Completed {
		sendMarkup(ctx, b, log, chatID, deps.Config.Messages.ProfileIncompleteMsg, menuKeyboard())
		return
	}

	candidate, err := deps.Engine.NextCandidate(dbCtx, viewerID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to pick next candidate", "error", err, "user_id", viewerID)
		sendText(ctx, b, log, chatID, deps.Config.Messages.ErrorGeneralMsg)
		return
	}
	if candidate == nil {
		sendMarkup(ctx, b, log, chatID, deps.Config.Messages.NoCandidatesMsg, menuKeyboard())
		return
	}

	log.DebugContext(ctx, "Showing candidate", "viewer_id", viewerID, "candidate_id", candidate.UserID)
	SendProfileCard(ctx, b, deps, chatID, candidate, FormatCard(candidate), reactionKeyboard(candidate.UserID))
}

// reactionKeyboard builds the like/skip buttons shown under a candidate card.
func reactionKeyboard(candidateID int64) models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "❤️ Like", CallbackData: fmt.Sprintf("%s%d", CallbackLikePrefix, candidateID)},
			{Text: "👎 Skip", CallbackData: fmt.Sprintf("%s%d", CallbackSkipPrefix, candidateID)},
		}},
	}
}
