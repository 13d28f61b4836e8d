package match_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/kolotov/svahabot/internal/database"
	"github.com/kolotov/svahabot/internal/match"
)

func newTestEngine(t *testing.T) *match.Engine {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return match.NewEngine(database.NewStore(db, logger), logger)
}

func TestReactOneSidedLike(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)

	outcome, err := engine.React(context.Background(), 1, 2, database.ReactionLike)
	if err != nil {
		t.Fatalf("React failed: %v", err)
	}
	if outcome.Mutual || outcome.NewMatch {
		t.Errorf("one-sided like produced %+v, want neither mutual nor new match", outcome)
	}
}

func TestReactSkipNeverMatches(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.React(ctx, 2, 1, database.ReactionLike); err != nil {
		t.Fatalf("React failed: %v", err)
	}

	// 1 skips 2 even though 2 likes 1.
	outcome, err := engine.React(ctx, 1, 2, database.ReactionSkip)
	if err != nil {
		t.Fatalf("React failed: %v", err)
	}
	if outcome.Mutual || outcome.NewMatch {
		t.Errorf("skip produced %+v, want neither mutual nor new match", outcome)
	}
}

func TestReactMutualLikeCreatesMatchOnce(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.React(ctx, 1, 2, database.ReactionLike); err != nil {
		t.Fatalf("React failed: %v", err)
	}

	// The completing like wins the match creation.
	outcome, err := engine.React(ctx, 2, 1, database.ReactionLike)
	if err != nil {
		t.Fatalf("React failed: %v", err)
	}
	if !outcome.Mutual {
		t.Error("mutual likes not reported as mutual")
	}
	if !outcome.NewMatch {
		t.Error("completing like must report a new match")
	}

	// A repeated like sees the existing pair and must not claim it again.
	outcome, err = engine.React(ctx, 1, 2, database.ReactionLike)
	if err != nil {
		t.Fatalf("repeat React failed: %v", err)
	}
	if !outcome.Mutual {
		t.Error("repeat like between matched users must still be mutual")
	}
	if outcome.NewMatch {
		t.Error("repeat like claimed the match again, want NewMatch=false")
	}
}

func TestReactSkipThenLikeRestoresMutualWithoutRematch(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.React(ctx, 1, 2, database.ReactionLike); err != nil {
		t.Fatalf("React failed: %v", err)
	}
	outcome, err := engine.React(ctx, 2, 1, database.ReactionLike)
	if err != nil {
		t.Fatalf("React failed: %v", err)
	}
	if !outcome.NewMatch {
		t.Fatal("expected initial match")
	}

	// User 2 changes their mind, then changes it back. The match row
	// survives the flip, so no second notification is owed.
	if _, err := engine.React(ctx, 2, 1, database.ReactionSkip); err != nil {
		t.Fatalf("React failed: %v", err)
	}
	outcome, err = engine.React(ctx, 2, 1, database.ReactionLike)
	if err != nil {
		t.Fatalf("React failed: %v", err)
	}
	if !outcome.Mutual {
		t.Error("restored like must be mutual again")
	}
	if outcome.NewMatch {
		t.Error("restored like must not create a second match")
	}
}

func TestMarkNotified(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.React(ctx, 1, 2, database.ReactionLike); err != nil {
		t.Fatalf("React failed: %v", err)
	}
	if _, err := engine.React(ctx, 2, 1, database.ReactionLike); err != nil {
		t.Fatalf("React failed: %v", err)
	}

	mutual, err := engine.HasMutualLike(ctx, 1, 2)
	if err != nil {
		t.Fatalf("HasMutualLike failed: %v", err)
	}
	if !mutual {
		t.Error("HasMutualLike = false for a matched pair")
	}

	if err := engine.MarkNotified(ctx, 2, 1); err != nil {
		t.Fatalf("MarkNotified failed: %v", err)
	}
}
