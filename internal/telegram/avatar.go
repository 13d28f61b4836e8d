package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"

	"github.com/kolotov/svahabot/internal/database"
)

const avatarLookupTimeout = 10 * time.Second

// AvatarResolver looks up a user's current Telegram profile photo so it can
// stand in when a profile is saved without any media.
type AvatarResolver struct {
	mu     sync.Mutex
	bot    *bot.Bot
	logger *slog.Logger
}

// NewAvatarResolver creates an unbound resolver. It resolves to no avatar
// until Bind attaches a bot client.
func NewAvatarResolver(logger *slog.Logger) *AvatarResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &AvatarResolver{logger: logger.With("component", "avatar_resolver")}
}

// Bind attaches the bot client. The resolver is constructed before the bot
// so it can be wired into the conversation controller first.
func (r *AvatarResolver) Bind(b *bot.Bot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bot = b
}

// ResolveAvatar returns a ref to the largest variant of the user's first
// profile photo, or nil when the user has none or the resolver is unbound.
func (r *AvatarResolver) ResolveAvatar(ctx context.Context, userID int64) (*database.MediaRef, error) {
	r.mu.Lock()
	b := r.bot
	r.mu.Unlock()

	if b == nil {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, avatarLookupTimeout)
	defer cancel()

	photos, err := b.GetUserProfilePhotos(callCtx, &bot.GetUserProfilePhotosParams{
		UserID: userID,
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile photos for user %d: %w", userID, err)
	}
	if photos == nil || len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return nil, nil
	}

	best := photos.Photos[0][0]
	for _, size := range photos.Photos[0][1:] {
		if size.Width*size.Height > best.Width*best.Height {
			best = size
		}
	}

	r.logger.DebugContext(ctx, "Resolved profile photo as avatar",
		"user_id", userID, "file_id", best.FileID)

	return &database.MediaRef{Kind: database.MediaKindPhoto, Handle: best.FileID}, nil
}
