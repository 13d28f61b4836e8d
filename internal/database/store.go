package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// UpsertUserIdentity creates an incomplete profile row on first contact,
	// or refreshes the stored username on later contact. It never touches
	// profile fields or updated_at.
	UpsertUserIdentity(ctx context.Context, userID int64, username string) error

	// GetProfile retrieves a profile by user ID. Returns nil, nil if not found.
	GetProfile(ctx context.Context, userID int64) (*Profile, error)

	// SetProfile persists a finished profile atomically. The profile is
	// either fully updated or untouched.
	SetProfile(ctx context.Context, profile *Profile) error

	// UpdateMediaRefs replaces the stored media list for a user, used for
	// hydration write-back. It does not bump updated_at, so a render never
	// changes candidate ordering.
	UpdateMediaRefs(ctx context.Context, userID int64, refs MediaRefs) error

	// ResetProfile clears all profile fields, marks the profile incomplete,
	// and deletes reactions authored by the user along with match pairs the
	// user is part of.
	ResetProfile(ctx context.Context, userID int64) error

	// DeleteProfile removes the profile row, reactions in either direction,
	// and match pairs the user is part of.
	DeleteProfile(ctx context.Context, userID int64) error

	// NextCandidate returns the next completed profile the viewer has not
	// reacted to, filtered by mutual preference, most recently updated first.
	// Returns nil, nil when no candidate qualifies.
	NextCandidate(ctx context.Context, viewerID int64) (*Profile, error)

	// UpsertReaction records a directional reaction, overwriting status and
	// updated_at for a repeated (from, to) pair.
	UpsertReaction(ctx context.Context, reaction *Reaction) error

	// HasMutualLike reports whether both directional like rows exist.
	HasMutualLike(ctx context.Context, a, b int64) (bool, error)

	// CreateMatchPair inserts the canonical match row for the pair if absent.
	// It returns true only when this call created the row, marking the
	// transition into mutual state.
	CreateMatchPair(ctx context.Context, a, b int64) (bool, error)

	// MarkMatchNotified stamps the pair's notified_at after delivery attempts.
	MarkMatchNotified(ctx context.Context, a, b int64) error

	// ListCompletedUserIDs returns the IDs of all completed profiles.
	ListCompletedUserIDs(ctx context.Context) ([]int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

const profileColumns = `user_id, created_at, updated_at, username, display_name, age,
       gender, preferred_gender, bio, media, completed`

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertUserIdentity creates an incomplete profile row or refreshes the username.
func (s *sqlxStore) UpsertUserIdentity(ctx context.Context, userID int64, username string) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	now := time.Now().UTC()
	query := `
        INSERT INTO profiles (user_id, username, created_at, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET username = excluded.username;
    `

	_, err := s.db.ExecContext(ctx, query, userID, username, now, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting user identity", "user_id", userID, "error", err)
		return fmt.Errorf("failed to upsert identity for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "User identity upserted", "user_id", userID, "username", username)
	return nil
}

// GetProfile retrieves a profile by user ID. Returns nil, nil if not found.
func (s *sqlxStore) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var profile Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = ?`

	err := s.db.GetContext(ctx, &profile, query, userID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No profile found", "user_id", userID)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching profile",
			"user_id", userID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting profile", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get profile for user %d: %w", userID, err)
	}

	return &profile, nil
}

// SetProfile persists a finished profile atomically.
func (s *sqlxStore) SetProfile(ctx context.Context, profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("cannot save nil profile")
	}
	if profile.UserID == 0 {
		return fmt.Errorf("profile must have a non-zero user_id")
	}
	if profile.Completed {
		// A profile may only be marked completed when every field constraint holds.
		if profile.DisplayName == "" {
			return fmt.Errorf("completed profile must have a display name")
		}
		if profile.Age < 16 || profile.Age > 100 {
			return fmt.Errorf("completed profile age %d out of range [16,100]", profile.Age)
		}
		if len([]rune(profile.Bio)) < 5 {
			return fmt.Errorf("completed profile bio is too short")
		}
		if len(profile.Media) > 3 {
			return fmt.Errorf("completed profile has %d media refs, maximum is 3", len(profile.Media))
		}
	}

	now := time.Now().UTC()
	profile.UpdatedAt = now
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving profile",
			"user_id", profile.UserID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	var exists bool
	err = tx.GetContext(ctx, &exists,
		`SELECT 1 FROM profiles WHERE user_id = ? LIMIT 1`, profile.UserID)

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Error checking if profile exists",
			"user_id", profile.UserID, "error", err)
		return fmt.Errorf("failed to check if profile exists for user %d: %w", profile.UserID, err)
	}

	var result sql.Result

	if exists {
		query := `
			UPDATE profiles SET
				username = :username,
				display_name = :display_name,
				age = :age,
				gender = :gender,
				preferred_gender = :preferred_gender,
				bio = :bio,
				media = :media,
				completed = :completed,
				updated_at = :updated_at
			WHERE user_id = :user_id
		`
		result, err = tx.NamedExecContext(ctx, query, profile)
	} else {
		query := `
			INSERT INTO profiles (
				user_id, username, display_name, age, gender, preferred_gender,
				bio, media, completed, created_at, updated_at
			) VALUES (
				:user_id, :username, :display_name, :age, :gender, :preferred_gender,
				:bio, :media, :completed, :created_at, :updated_at
			)
		`
		result, err = tx.NamedExecContext(ctx, query, profile)
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving profile", "user_id", profile.UserID, "error", err)
		return fmt.Errorf("failed to save profile for user %d: %w", profile.UserID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count when saving profile",
			"user_id", profile.UserID, "error", err)
	} else if affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when saving profile",
			"user_id", profile.UserID, "affected", affected)
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction",
			"user_id", profile.UserID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	operation := "updated"
	if !exists {
		operation = "created"
	}
	s.logger.DebugContext(ctx, "Profile saved successfully",
		"operation", operation, "user_id", profile.UserID, "completed", profile.Completed)

	return nil
}

// UpdateMediaRefs replaces the stored media list for a user.
func (s *sqlxStore) UpdateMediaRefs(ctx context.Context, userID int64, refs MediaRefs) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET media = ? WHERE user_id = ?`, refs, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating media refs", "user_id", userID, "error", err)
		return fmt.Errorf("failed to update media refs for user %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when updating media refs",
			"user_id", userID, "affected", affected)
	}

	s.logger.DebugContext(ctx, "Media refs updated", "user_id", userID, "count", len(refs))
	return nil
}

// ResetProfile clears profile fields and deletes authored reactions and match pairs.
func (s *sqlxStore) ResetProfile(ctx context.Context, userID int64) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for profile reset", "user_id", userID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		UPDATE profiles SET
			display_name = '', age = 0, gender = '', preferred_gender = '',
			bio = '', media = '[]', completed = 0, updated_at = ?
		WHERE user_id = ?`, now, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error clearing profile fields during reset", "user_id", userID, "error", err)
		return fmt.Errorf("failed to clear profile for user %d: %w", userID, err)
	}

	reactionsResult, err := tx.ExecContext(ctx,
		`DELETE FROM reactions WHERE from_user_id = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting authored reactions during reset", "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete reactions for user %d: %w", userID, err)
	}
	reactionsCount, _ := reactionsResult.RowsAffected()

	// The pair rows must follow the reactions they were derived from, so a
	// future reciprocal like counts as a fresh transition into mutual state.
	matchesResult, err := tx.ExecContext(ctx,
		`DELETE FROM matches WHERE user_lo_id = ? OR user_hi_id = ?`, userID, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting match pairs during reset", "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete match pairs for user %d: %w", userID, err)
	}
	matchesCount, _ := matchesResult.RowsAffected()

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit profile reset transaction", "user_id", userID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "Profile reset successfully",
		"user_id", userID,
		"reactions_deleted", reactionsCount,
		"matches_deleted", matchesCount)
	return nil
}

// DeleteProfile removes the profile row and every related reaction and match pair.
func (s *sqlxStore) DeleteProfile(ctx context.Context, userID int64) error {
	if userID == 0 {
		return fmt.Errorf("user_id cannot be zero")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for profile deletion", "user_id", userID, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	reactionsResult, err := tx.ExecContext(ctx,
		`DELETE FROM reactions WHERE from_user_id = ? OR to_user_id = ?`, userID, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting reactions during profile deletion", "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete reactions for user %d: %w", userID, err)
	}
	reactionsCount, _ := reactionsResult.RowsAffected()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM matches WHERE user_lo_id = ? OR user_hi_id = ?`, userID, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting match pairs during profile deletion", "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete match pairs for user %d: %w", userID, err)
	}

	profileResult, err := tx.ExecContext(ctx,
		`DELETE FROM profiles WHERE user_id = ?`, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting profile row", "user_id", userID, "error", err)
		return fmt.Errorf("failed to delete profile for user %d: %w", userID, err)
	}
	profileCount, _ := profileResult.RowsAffected()

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit profile deletion transaction", "user_id", userID, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	s.logger.InfoContext(ctx, "Profile deleted",
		"user_id", userID,
		"profile_rows", profileCount,
		"reactions_deleted", reactionsCount)
	return nil
}

// NextCandidate returns the next eligible candidate for the viewer per the
// selection rules: completed, never reacted to by the viewer, mutually
// preference-compatible, most recently updated first with user_id as the
// stable tiebreak.
func (s *sqlxStore) NextCandidate(ctx context.Context, viewerID int64) (*Profile, error) {
	if viewerID == 0 {
		return nil, fmt.Errorf("viewer_id cannot be zero")
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	viewer, err := s.GetProfile(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, fmt.Errorf("viewer %d has no profile", viewerID)
	}

	var candidate Profile
	query := `
        SELECT ` + profileColumns + `
        FROM profiles
        WHERE user_id != ?
          AND completed = 1
          AND user_id NOT IN (SELECT to_user_id FROM reactions WHERE from_user_id = ?)
          AND (? = '' OR gender = '' OR gender = ?)
          AND (preferred_gender = '' OR ? = '' OR preferred_gender = ?)
        ORDER BY updated_at DESC, user_id ASC
        LIMIT 1;
    `

	err = s.db.GetContext(ctx, &candidate, query,
		viewerID, viewerID,
		viewer.PreferredGender, viewer.PreferredGender,
		viewer.Gender, viewer.Gender)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No candidate available", "viewer_id", viewerID)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching candidate",
			"viewer_id", viewerID, "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error fetching next candidate", "viewer_id", viewerID, "error", err)
		return nil, fmt.Errorf("failed to fetch next candidate for viewer %d: %w", viewerID, err)
	}

	s.logger.DebugContext(ctx, "Candidate selected",
		"viewer_id", viewerID, "candidate_id", candidate.UserID)
	return &candidate, nil
}

// UpsertReaction records a directional reaction with last-write-wins semantics.
func (s *sqlxStore) UpsertReaction(ctx context.Context, reaction *Reaction) error {
	if reaction == nil {
		return fmt.Errorf("cannot save nil reaction")
	}
	if reaction.FromUserID == 0 || reaction.ToUserID == 0 {
		return fmt.Errorf("reaction must have non-zero user IDs")
	}
	if reaction.FromUserID == reaction.ToUserID {
		return fmt.Errorf("reaction cannot target its author (user %d)", reaction.FromUserID)
	}
	if reaction.Status != ReactionLike && reaction.Status != ReactionSkip {
		return fmt.Errorf("invalid reaction status %q", reaction.Status)
	}

	now := time.Now().UTC()
	reaction.UpdatedAt = now
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = now
	}

	query := `
        INSERT INTO reactions (from_user_id, to_user_id, status, created_at, updated_at)
        VALUES (:from_user_id, :to_user_id, :status, :created_at, :updated_at)
        ON CONFLICT (from_user_id, to_user_id)
        DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at;
    `

	_, err := s.db.NamedExecContext(ctx, query, reaction)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error upserting reaction",
			"from_user_id", reaction.FromUserID, "to_user_id", reaction.ToUserID, "error", err)
		return fmt.Errorf("failed to upsert reaction %d -> %d: %w",
			reaction.FromUserID, reaction.ToUserID, err)
	}

	s.logger.DebugContext(ctx, "Reaction recorded",
		"from_user_id", reaction.FromUserID,
		"to_user_id", reaction.ToUserID,
		"status", reaction.Status)
	return nil
}

// HasMutualLike reports whether both directional like rows exist.
func (s *sqlxStore) HasMutualLike(ctx context.Context, a, b int64) (bool, error) {
	if a == 0 || b == 0 {
		return false, fmt.Errorf("user IDs cannot be zero")
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	var count int
	query := `
        SELECT COUNT(*)
        FROM reactions r1
        JOIN reactions r2
          ON r1.from_user_id = r2.to_user_id
         AND r1.to_user_id = r2.from_user_id
        WHERE r1.from_user_id = ? AND r1.to_user_id = ?
          AND r1.status = ? AND r2.status = ?;
    `

	err := s.db.GetContext(ctx, &count, query, a, b, ReactionLike, ReactionLike)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error checking mutual like", "a", a, "b", b, "error", err)
		return false, fmt.Errorf("failed to check mutual like between %d and %d: %w", a, b, err)
	}

	return count > 0, nil
}

// CreateMatchPair inserts the canonical match row if absent, reporting
// whether this call created it.
func (s *sqlxStore) CreateMatchPair(ctx context.Context, a, b int64) (bool, error) {
	if a == 0 || b == 0 {
		return false, fmt.Errorf("user IDs cannot be zero")
	}
	if a == b {
		return false, fmt.Errorf("match pair cannot contain the same user twice (user %d)", a)
	}

	lo, hi := canonicalPair(a, b)
	now := time.Now().UTC()

	query := `
        INSERT INTO matches (user_lo_id, user_hi_id, created_at)
        VALUES (?, ?, ?)
        ON CONFLICT (user_lo_id, user_hi_id) DO NOTHING;
    `

	result, err := s.db.ExecContext(ctx, query, lo, hi, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error creating match pair", "user_lo_id", lo, "user_hi_id", hi, "error", err)
		return false, fmt.Errorf("failed to create match pair (%d, %d): %w", lo, hi, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count for match pair",
			"user_lo_id", lo, "user_hi_id", hi, "error", err)
		return false, fmt.Errorf("failed to confirm match pair (%d, %d): %w", lo, hi, err)
	}

	created := affected == 1
	if created {
		s.logger.InfoContext(ctx, "Match pair created", "user_lo_id", lo, "user_hi_id", hi)
	} else {
		s.logger.DebugContext(ctx, "Match pair already exists", "user_lo_id", lo, "user_hi_id", hi)
	}
	return created, nil
}

// MarkMatchNotified stamps the pair's notified_at.
func (s *sqlxStore) MarkMatchNotified(ctx context.Context, a, b int64) error {
	if a == 0 || b == 0 {
		return fmt.Errorf("user IDs cannot be zero")
	}

	lo, hi := canonicalPair(a, b)
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`UPDATE matches SET notified_at = ? WHERE user_lo_id = ? AND user_hi_id = ?`,
		now, lo, hi)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error marking match notified", "user_lo_id", lo, "user_hi_id", hi, "error", err)
		return fmt.Errorf("failed to mark match (%d, %d) notified: %w", lo, hi, err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when marking match notified",
			"user_lo_id", lo, "user_hi_id", hi, "affected", affected)
	}

	return nil
}

// ListCompletedUserIDs returns the IDs of all completed profiles.
func (s *sqlxStore) ListCompletedUserIDs(ctx context.Context) ([]int64, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var ids []int64
	query := `SELECT user_id FROM profiles WHERE completed = 1 ORDER BY user_id ASC`

	err := s.db.SelectContext(ctx, &ids, query)

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Context timeout or cancellation while listing completed users", "error", err)
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error listing completed user IDs", "error", err)
		return nil, fmt.Errorf("failed to list completed user IDs: %w", err)
	}

	s.logger.DebugContext(ctx, "Listed completed user IDs", "count", len(ids))
	return ids, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		s.logger.WarnContext(ctx, "Failed to set busy timeout", "error", err)
	}

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)

	default:
		s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	}

	return nil
}

// canonicalPair orders two user IDs ascending for match-pair storage.
func canonicalPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}
