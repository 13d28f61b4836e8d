package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/kolotov/svahabot/internal/conversation"
	"github.com/kolotov/svahabot/internal/database"
)

// NewConversationHandler returns the default handler. Messages that match no
// registered command land here: session input while a profile session is
// active, main menu presses otherwise.
func NewConversationHandler(deps HandlerDeps) bot.HandlerFunc {
	return conversationHandler{deps}.Handle
}

type conversationHandler struct {
	deps HandlerDeps
}

func (h conversationHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "conversation")

	if update.Message == nil || update.Message.From == nil {
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID

	if h.deps.Conversation.Active(userID) {
		h.handleSessionInput(ctx, b, log, chatID, userID, msg)
		return
	}

	h.handleMenu(ctx, b, log, chatID, userID, msg)
}

func (h conversationHandler) handleSessionInput(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID, userID int64, msg *models.Message) {
	// Unregistered commands must not end up in profile fields.
	if strings.HasPrefix(strings.TrimSpace(msg.Text), "/") {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ActiveSessionMsg)
		return
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbOpTimeout)
	defer cancel()

	reply, err := h.deps.Conversation.Handle(dbCtx, userID, messageEvent(msg))
	if err != nil {
		log.ErrorContext(ctx, "Failed to handle session input", "error", err, "user_id", userID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ErrorGeneralMsg)
		return
	}
	if reply == nil {
		sendMarkup(ctx, b, log, chatID, h.deps.Config.Messages.NoSessionHintMsg, menuKeyboard())
		return
	}

	sendConversationReply(ctx, b, log, chatID, reply)

	if reply.Done && reply.Profile != nil {
		log.InfoContext(ctx, "Profile saved", "user_id", userID)
		SendProfileCard(ctx, b, h.deps, chatID, reply.Profile, FormatCard(reply.Profile), nil)
	}
}

func (h conversationHandler) handleMenu(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID, userID int64, msg *models.Message) {
	switch msg.Text {
	case MenuBrowse:
		sendNextCandidate(ctx, b, h.deps, log, chatID, userID)
	case MenuProfile:
		showOwnProfile(ctx, b, h.deps, log, chatID, userID)
	case MenuEdit:
		beginConversation(ctx, b, h.deps, log, chatID, userID, msg.From.Username)
	case MenuSupport:
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.Support)
	default:
		sendMarkup(ctx, b, log, chatID, h.deps.Config.Messages.NoSessionHintMsg, menuKeyboard())
	}
}

// messageEvent classifies an incoming message into a session event. Photos
// use their largest variant; anything without usable media falls back to a
// text event, which the session rejects with a re-prompt when it does not
// fit the current step.
func messageEvent(msg *models.Message) conversation.Event {
	if len(msg.Photo) > 0 {
		best := msg.Photo[0]
		for _, size := range msg.Photo[1:] {
			if size.Width*size.Height > best.Width*best.Height {
				best = size
			}
		}
		return conversation.Event{
			Kind:  conversation.EventMedia,
			Media: &database.MediaRef{Kind: database.MediaKindPhoto, Handle: best.FileID},
		}
	}
	if msg.Video != nil {
		return conversation.Event{
			Kind:  conversation.EventMedia,
			Media: &database.MediaRef{Kind: database.MediaKindVideo, Handle: msg.Video.FileID},
		}
	}
	return conversation.Event{Kind: conversation.EventText, Text: msg.Text}
}
