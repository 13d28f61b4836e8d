package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/kolotov/svahabot/internal/database"
	"github.com/kolotov/svahabot/internal/media"
)

const (
	// maxHydratePerRender caps how many refs one rendering pass resolves
	// and hydrates.
	maxHydratePerRender = 3

	// captionLimit is Telegram's media caption ceiling.
	captionLimit = 1024

	mediaSendTimeout = 30 * time.Second
)

// FormatCard renders a profile as the card text shown to other users.
func FormatCard(profile *database.Profile) string {
	bio := profile.Bio
	if bio == "" {
		bio = "No bio yet."
	}
	return fmt.Sprintf("%s, %d\nGender: %s\nLooking for: %s\n%s",
		profile.DisplayName, profile.Age,
		genderText(profile.Gender), preferenceText(profile.PreferredGender), bio)
}

// ContactLine returns how to reach the profile's owner: the public username
// when set, otherwise a direct user link.
func ContactLine(profile *database.Profile) string {
	if profile.Username != "" {
		return "@" + profile.Username
	}
	return fmt.Sprintf("tg://user?id=%d", profile.UserID)
}

func genderText(code string) string {
	switch code {
	case database.GenderMale:
		return "Male"
	case database.GenderFemale:
		return "Female"
	default:
		return "Not set"
	}
}

func preferenceText(code string) string {
	switch code {
	case database.GenderMale:
		return "Men"
	case database.GenderFemale:
		return "Women"
	default:
		return "Not set"
	}
}

// SendProfileCard delivers a profile card: the first media ref carries the
// caption and buttons, remaining refs follow bare. Refs that had to be
// fetched get their newly issued handles written back, capped at the first
// maxHydratePerRender refs. Every failure degrades rather than aborts, down
// to a text-only card.
func SendProfileCard(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64, profile *database.Profile, caption string, markup models.ReplyMarkup) {
	log := deps.Logger.With("handler", "card")

	refs := profile.Media
	if len(refs) > maxHydratePerRender {
		refs = refs[:maxHydratePerRender]
	}

	if len(refs) == 0 {
		sendMarkup(ctx, b, log, chatID, caption, markup)
		return
	}

	// Overlong captions move to a separate message, which then carries the
	// buttons instead of the media.
	mediaCaption := caption
	mediaMarkup := markup
	var trailingText string
	if len([]rune(caption)) > captionLimit {
		mediaCaption = ""
		mediaMarkup = nil
		trailingText = caption
	}

	hydrated := false

	newHandle, err := sendMediaRef(ctx, b, deps, chatID, refs[0], mediaCaption, mediaMarkup)
	if err != nil {
		log.WarnContext(ctx, "Falling back to text-only card",
			"user_id", profile.UserID, "error", err)
		sendMarkup(ctx, b, log, chatID, caption, markup)
		return
	}
	if newHandle != "" {
		refs[0].Handle = newHandle
		hydrated = true
	}

	for i := 1; i < len(refs); i++ {
		handle, err := sendMediaRef(ctx, b, deps, chatID, refs[i], "", nil)
		if err != nil {
			log.WarnContext(ctx, "Skipping extra media",
				"user_id", profile.UserID, "index", i, "error", err)
			continue
		}
		if handle != "" {
			refs[i].Handle = handle
			hydrated = true
		}
	}

	if trailingText != "" {
		sendMarkup(ctx, b, log, chatID, trailingText, markup)
	}

	if hydrated {
		writeCtx, cancel := context.WithTimeout(ctx, dbOpTimeout)
		defer cancel()
		if err := deps.Media.WriteBack(writeCtx, profile.UserID, profile.Media); err != nil {
			log.WarnContext(ctx, "Failed to persist hydrated media handles",
				"user_id", profile.UserID, "error", err)
		}
	}
}

// sendMediaRef resolves and sends one ref. It returns the Telegram-issued
// file ID when the payload had to be uploaded, empty otherwise.
func sendMediaRef(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64, ref database.MediaRef, caption string, markup models.ReplyMarkup) (string, error) {
	resolved, err := deps.Media.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}

	var file models.InputFile
	if resolved.Handle != "" {
		file = &models.InputFileString{Data: resolved.Handle}
	} else {
		file = &models.InputFileUpload{
			Filename: uploadFilename(resolved),
			Data:     bytes.NewReader(resolved.Data),
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, mediaSendTimeout)
	defer cancel()

	if resolved.Kind == database.MediaKindVideo {
		msg, err := b.SendVideo(sendCtx, &bot.SendVideoParams{
			ChatID:      chatID,
			Video:       file,
			Caption:     caption,
			ReplyMarkup: markup,
		})
		if err != nil {
			return "", fmt.Errorf("failed to send video: %w", err)
		}
		if resolved.Fetched && msg.Video != nil {
			return msg.Video.FileID, nil
		}
		return "", nil
	}

	msg, err := b.SendPhoto(sendCtx, &bot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       file,
		Caption:     caption,
		ReplyMarkup: markup,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send photo: %w", err)
	}
	if resolved.Fetched && len(msg.Photo) > 0 {
		// Telegram lists sizes ascending; the last one is the original.
		return msg.Photo[len(msg.Photo)-1].FileID, nil
	}
	return "", nil
}

func uploadFilename(resolved *media.Resolved) string {
	switch resolved.MIME {
	case "image/png":
		return "photo.png"
	case "image/gif":
		return "photo.gif"
	case "video/mp4":
		return "video.mp4"
	case "video/webm":
		return "video.webm"
	default:
		if resolved.Kind == database.MediaKindVideo {
			return "video.mp4"
		}
		return "photo.jpg"
	}
}
