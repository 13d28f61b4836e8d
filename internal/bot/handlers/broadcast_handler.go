package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewBroadcastHandler returns a handler for the admin /broadcast command.
func NewBroadcastHandler(deps HandlerDeps) bot.HandlerFunc {
	return broadcastHandler{deps}.Handle
}

// broadcastHandler delivers an announcement to every completed profile.
type broadcastHandler struct {
	deps HandlerDeps
}

func (h broadcastHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "broadcast")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Broadcast handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	text := broadcastText(update.Message.Text)
	if text == "" {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.BroadcastUsageMsg)
		return
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbOpTimeout)
	defer cancel()

	userIDs, err := h.deps.Store.ListCompletedUserIDs(dbCtx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list broadcast recipients", "error", err)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ErrorGeneralMsg)
		return
	}

	log.InfoContext(ctx, "Broadcasting message", "admin_id", update.Message.From.ID, "recipients", len(userIDs))

	delivered, failed := 0, 0
	for _, userID := range userIDs {
		sendCtx, cancelSend := context.WithTimeout(ctx, sendMessageTimeout)
		_, err := b.SendMessage(sendCtx, &bot.SendMessageParams{ChatID: userID, Text: text})
		cancelSend()
		if err != nil {
			failed++
			log.WarnContext(ctx, "Broadcast delivery failed", "user_id", userID, "error", err)
			continue
		}
		delivered++
	}

	log.InfoContext(ctx, "Broadcast finished", "delivered", delivered, "failed", failed)
	sendText(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.BroadcastReportFmt, delivered, failed))
}

// broadcastText strips the command itself, tolerating the /broadcast@botname
// form.
func broadcastText(messageText string) string {
	idx := strings.IndexByte(messageText, ' ')
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(messageText[idx+1:])
}
