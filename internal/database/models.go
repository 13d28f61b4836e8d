package database

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Codes stored in profile and reaction rows. Gender and preference columns
// hold one of the gender codes or the empty string for unset.
const (
	GenderMale   = "male"
	GenderFemale = "female"

	MediaKindPhoto = "photo"
	MediaKindVideo = "video"

	ReactionLike = "like"
	ReactionSkip = "skip"
)

// MediaRef points at one profile attachment. Handle is the Telegram file ID
// once known; SourceURL is a fetchable location for refs that have not been
// sent through Telegram yet. At least one of the two is set on creation, and
// Handle may be filled in later after a successful send (hydration).
type MediaRef struct {
	Kind      string `json:"kind"`
	Handle    string `json:"handle,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// NormalizedKind returns the media kind, defaulting unrecognized values to photo.
func (m MediaRef) NormalizedKind() string {
	if m.Kind == MediaKindVideo {
		return MediaKindVideo
	}
	return MediaKindPhoto
}

// Resolvable reports whether the ref carries anything that can become a
// sendable payload.
func (m MediaRef) Resolvable() bool {
	return m.Handle != "" || m.SourceURL != ""
}

// MediaRefs is the ordered list of a profile's attachments, stored as a JSON
// text column. The first ref is the primary one.
type MediaRefs []MediaRef

// Value implements driver.Valuer, serializing the refs to JSON.
func (m MediaRefs) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal media refs: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner, deserializing the JSON column.
func (m *MediaRefs) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan media refs from %T", src)
	}

	if len(data) == 0 {
		*m = nil
		return nil
	}

	var refs []MediaRef
	if err := json.Unmarshal(data, &refs); err != nil {
		return fmt.Errorf("failed to unmarshal media refs: %w", err)
	}
	*m = refs
	return nil
}

// Profile is one user's dating record. A row is created incomplete on first
// contact and becomes completed only when every field constraint holds.
type Profile struct {
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Username        string    `db:"username"`
	DisplayName     string    `db:"display_name"`
	Age             int       `db:"age"`
	Gender          string    `db:"gender"`
	PreferredGender string    `db:"preferred_gender"`
	Bio             string    `db:"bio"`
	Media           MediaRefs `db:"media"`
	Completed       bool      `db:"completed"`
}

// Reaction is a directional like/skip from one user to another, unique per
// ordered pair. A repeat reaction overwrites status and updated_at.
type Reaction struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	FromUserID int64  `db:"from_user_id"`
	ToUserID   int64  `db:"to_user_id"`
	Status     string `db:"status"`
}

// MatchPair records a mutual like between two users, stored in canonical
// order (UserLoID < UserHiID) so the pair is unique regardless of which like
// arrived last. Its creation is the transition into mutual state and gates
// match notifications. NotifiedAt is stamped after delivery attempts.
type MatchPair struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	UserLoID   int64        `db:"user_lo_id"`
	UserHiID   int64        `db:"user_hi_id"`
	NotifiedAt sql.NullTime `db:"notified_at"`
}
