package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/kolotov/svahabot/internal/database"
)

// Callback data prefixes for the reaction buttons. The candidate's user ID
// follows the prefix, so a stale button press still names its target.
const (
	CallbackLikePrefix = "like_"
	CallbackSkipPrefix = "skip_"
)

// NewReactionHandler returns a handler for like/skip callback queries.
func NewReactionHandler(deps HandlerDeps) bot.HandlerFunc {
	return reactionHandler{deps}.Handle
}

type reactionHandler struct {
	deps HandlerDeps
}

func (h reactionHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reaction")

	cb := update.CallbackQuery
	if cb == nil {
		log.WarnContext(ctx, "Reaction handler received update without callback query", "update_id", update.ID)
		return
	}

	answerCallback(ctx, b, log, cb.ID)

	status, candidateID, err := parseReactionData(cb.Data)
	if err != nil {
		log.WarnContext(ctx, "Ignoring malformed reaction callback", "data", cb.Data, "error", err)
		return
	}

	userID := cb.From.ID
	chatID := callbackChatID(cb)
	log.InfoContext(ctx, "Handling reaction", "user_id", userID, "candidate_id", candidateID, "status", status)

	dbCtx, cancel := context.WithTimeout(ctx, dbOpTimeout)
	defer cancel()

	outcome, err := h.deps.Engine.React(dbCtx, userID, candidateID, status)
	if err != nil {
		log.ErrorContext(ctx, "Failed to record reaction", "error", err, "user_id", userID, "candidate_id", candidateID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ErrorGeneralMsg)
		return
	}

	if outcome.NewMatch {
		h.notifyMatch(ctx, b, log, userID, chatID, candidateID)
	}

	sendNextCandidate(ctx, b, h.deps, log, chatID, userID)
}

// notifyMatch tells both parties about a fresh mutual like: each side gets
// the match header, the other's contact, and the other's card.
func (h reactionHandler) notifyMatch(ctx context.Context, b *bot.Bot, log *slog.Logger, userID, userChatID, matchedID int64) {
	dbCtx, cancel := context.WithTimeout(ctx, dbOpTimeout)
	defer cancel()

	own, err := h.deps.Store.GetProfile(dbCtx, userID)
	if err != nil || own == nil {
		log.ErrorContext(ctx, "Failed to load own profile for match notification", "error", err, "user_id", userID)
		return
	}
	other, err := h.deps.Store.GetProfile(dbCtx, matchedID)
	if err != nil || other == nil {
		log.ErrorContext(ctx, "Failed to load matched profile", "error", err, "user_id", matchedID)
		return
	}

	log.InfoContext(ctx, "Notifying new match", "user_id", userID, "matched_id", matchedID)

	SendProfileCard(ctx, b, h.deps, userChatID, other, matchCaption(h.deps.Config.Messages.MatchHeaderMsg, other), nil)
	SendProfileCard(ctx, b, h.deps, other.UserID, own, matchCaption(h.deps.Config.Messages.MatchHeaderMsg, own), nil)

	markCtx, cancelMark := context.WithTimeout(ctx, dbOpTimeout)
	defer cancelMark()
	if err := h.deps.Engine.MarkNotified(markCtx, userID, matchedID); err != nil {
		log.WarnContext(ctx, "Failed to mark match notified", "error", err, "user_id", userID, "matched_id", matchedID)
	}
}

// matchCaption builds the notification text around the other party's card.
func matchCaption(header string, other *database.Profile) string {
	return fmt.Sprintf("%s\nStart chatting 👉 %s\n\n%s", header, ContactLine(other), FormatCard(other))
}

// parseReactionData splits callback data into a reaction status and the
// candidate it targets.
func parseReactionData(data string) (string, int64, error) {
	var status, raw string
	switch {
	case strings.HasPrefix(data, CallbackLikePrefix):
		status, raw = database.ReactionLike, strings.TrimPrefix(data, CallbackLikePrefix)
	case strings.HasPrefix(data, CallbackSkipPrefix):
		status, raw = database.ReactionSkip, strings.TrimPrefix(data, CallbackSkipPrefix)
	default:
		return "", 0, fmt.Errorf("unknown callback data %q", data)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid candidate id in callback data %q", data)
	}
	return status, id, nil
}

// answerCallback acknowledges a callback query so the client stops its
// spinner, regardless of how handling goes afterwards.
func answerCallback(ctx context.Context, b *bot.Bot, log *slog.Logger, callbackID string) {
	answerCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	_, err := b.AnswerCallbackQuery(answerCtx, &bot.AnswerCallbackQueryParams{CallbackQueryID: callbackID})
	if err != nil {
		log.WarnContext(ctx, "Failed to answer callback query", "error", err, "callback_query_id", callbackID)
	}
}

// callbackChatID extracts the originating chat, falling back to the sender's
// private chat when the message is inaccessible.
func callbackChatID(cb *models.CallbackQuery) int64 {
	if cb.Message.Message != nil {
		return cb.Message.Message.Chat.ID
	}
	if cb.Message.InaccessibleMessage != nil {
		return cb.Message.InaccessibleMessage.Chat.ID
	}
	return cb.From.ID
}
