// Package match implements candidate recommendation and mutual-like
// detection on top of the store.
package match

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kolotov/svahabot/internal/database"
)

// Outcome describes what a recorded reaction led to. NewMatch is true for
// exactly one reaction per pair: the one whose like completed the mutual pair
// and created its match row. Later likes between the same users see
// Mutual=true, NewMatch=false.
type Outcome struct {
	Mutual   bool
	NewMatch bool
}

// Engine coordinates reactions, mutual-like checks, and match creation.
type Engine struct {
	store  database.Store
	logger *slog.Logger
}

// NewEngine creates a match engine over the given store.
func NewEngine(store database.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		store:  store,
		logger: logger.With("component", "match"),
	}
}

// NextCandidate returns the next profile the viewer should see, or nil when
// the pool is exhausted.
func (e *Engine) NextCandidate(ctx context.Context, viewerID int64) (*database.Profile, error) {
	return e.store.NextCandidate(ctx, viewerID)
}

// React records a reaction and reports whether it produced a mutual match.
// Recording and match creation are separate statements over the store's
// single connection, so the pair row is still created at most once even when
// both users like each other near-simultaneously.
func (e *Engine) React(ctx context.Context, from, to int64, status string) (*Outcome, error) {
	reaction := &database.Reaction{
		FromUserID: from,
		ToUserID:   to,
		Status:     status,
	}
	if err := e.store.UpsertReaction(ctx, reaction); err != nil {
		return nil, fmt.Errorf("failed to record reaction: %w", err)
	}

	if status != database.ReactionLike {
		return &Outcome{}, nil
	}

	mutual, err := e.store.HasMutualLike(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to check mutual like: %w", err)
	}
	if !mutual {
		return &Outcome{}, nil
	}

	created, err := e.store.CreateMatchPair(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to create match pair: %w", err)
	}

	if created {
		e.logger.InfoContext(ctx, "New mutual match", "from_user_id", from, "to_user_id", to)
	}

	return &Outcome{Mutual: true, NewMatch: created}, nil
}

// HasMutualLike reports whether the two users currently like each other.
func (e *Engine) HasMutualLike(ctx context.Context, a, b int64) (bool, error) {
	return e.store.HasMutualLike(ctx, a, b)
}

// MarkNotified stamps the pair's match row after notification delivery was
// attempted for both users.
func (e *Engine) MarkNotified(ctx context.Context, a, b int64) error {
	return e.store.MarkMatchNotified(ctx, a, b)
}
