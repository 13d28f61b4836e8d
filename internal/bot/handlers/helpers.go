package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/kolotov/svahabot/internal/conversation"
)

const (
	sendMessageTimeout   = 10 * time.Second
	dbOpTimeout          = 5 * time.Second
	destructiveOpTimeout = 30 * time.Second
)

// Main menu reply keyboard labels. The default handler dispatches on these
// when no session is active.
const (
	MenuBrowse  = "💕 Browse"
	MenuProfile = "👤 My profile"
	MenuEdit    = "✏️ Edit profile"
	MenuSupport = "🛟 Support"
)

// menuKeyboard is the persistent main menu shown outside of sessions.
func menuKeyboard() models.ReplyMarkup {
	return replyKeyboard([][]string{
		{MenuBrowse},
		{MenuProfile, MenuEdit},
		{MenuSupport},
	})
}

// replyKeyboard converts plain label rows into a resized reply keyboard.
func replyKeyboard(rows [][]string) models.ReplyMarkup {
	keyboard := make([][]models.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]models.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, models.KeyboardButton{Text: label})
		}
		keyboard = append(keyboard, buttons)
	}
	return &models.ReplyKeyboardMarkup{
		Keyboard:       keyboard,
		ResizeKeyboard: true,
	}
}

// sendText sends a plain text message, logging delivery failures.
func sendText(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	sendMarkup(ctx, b, log, chatID, text, nil)
}

// sendMarkup sends a text message with an optional keyboard, logging
// delivery failures.
func sendMarkup(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string, markup models.ReplyMarkup) {
	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()

	_, err := b.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

// sendConversationReply delivers a controller reply, translating its button
// rows into a reply keyboard. Completion and cancellation bring the main
// menu back.
func sendConversationReply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, reply *conversation.Reply) {
	var markup models.ReplyMarkup
	switch {
	case len(reply.Buttons) > 0:
		markup = replyKeyboard(reply.Buttons)
	case reply.Done || reply.Cancelled:
		markup = menuKeyboard()
	case reply.RemoveKeyboard:
		markup = &models.ReplyKeyboardRemove{RemoveKeyboard: true}
	}

	sendMarkup(ctx, b, log, chatID, reply.Text, markup)
}
