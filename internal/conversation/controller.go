package conversation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/kolotov/svahabot/internal/database"
	"github.com/kolotov/svahabot/internal/text"
)

// session is one user's in-flight profile collection. The snapshot is the
// profile as it was when the session began; keep-previous buttons read from
// it and the final save merges collected fields over it.
type session struct {
	state    State
	username string
	snapshot *database.Profile

	displayName     string
	age             int
	gender          string
	preferredGender string

	media database.MediaRefs
	// mediaStarted flips when the first new attachment arrives; from then on
	// the collected list replaces the snapshot's media entirely.
	mediaStarted bool
}

func (s *session) priorName() string {
	if s.snapshot != nil {
		return s.snapshot.DisplayName
	}
	return ""
}

func (s *session) priorAge() int {
	if s.snapshot != nil {
		return s.snapshot.Age
	}
	return 0
}

func (s *session) priorGender() string {
	if s.snapshot != nil {
		return s.snapshot.Gender
	}
	return ""
}

func (s *session) priorPreference() string {
	if s.snapshot != nil {
		return s.snapshot.PreferredGender
	}
	return ""
}

func (s *session) priorMedia() database.MediaRefs {
	if s.snapshot != nil {
		return s.snapshot.Media
	}
	return nil
}

func (s *session) priorBio() string {
	if s.snapshot != nil {
		return s.snapshot.Bio
	}
	return ""
}

// buildProfile merges the collected fields over the snapshot into the record
// to persist.
func (s *session) buildProfile(userID int64, bio string) *database.Profile {
	profile := &database.Profile{UserID: userID}
	if s.snapshot != nil {
		profile.CreatedAt = s.snapshot.CreatedAt
		profile.Username = s.snapshot.Username
	}
	if s.username != "" {
		profile.Username = s.username
	}

	profile.DisplayName = s.displayName
	profile.Age = s.age
	profile.Gender = s.gender
	profile.PreferredGender = s.preferredGender
	profile.Media = s.media
	profile.Bio = bio
	profile.Completed = true
	return profile
}

// AvatarResolver looks up a user's externally visible profile picture for
// use as the default media when nothing was collected. Implementations may
// return nil, nil when the user has none.
type AvatarResolver interface {
	ResolveAvatar(ctx context.Context, userID int64) (*database.MediaRef, error)
}

// Controller owns all active sessions and advances them event by event.
type Controller struct {
	store   database.Store
	avatars AvatarResolver
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[int64]*session
}

// NewController creates a conversation controller over the given store.
// avatars may be nil, disabling the profile photo fallback.
func NewController(store database.Store, avatars AvatarResolver, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		store:    store,
		avatars:  avatars,
		logger:   logger.With("component", "conversation"),
		sessions: make(map[int64]*session),
	}
}

// Begin starts a session for the user, replacing any session already in
// flight. The user's identity row is upserted first, then the existing
// profile, if any, seeds the keep-previous buttons.
func (c *Controller) Begin(ctx context.Context, userID int64, username string) (*Reply, error) {
	if err := c.store.UpsertUserIdentity(ctx, userID, username); err != nil {
		return nil, fmt.Errorf("failed to record identity for conversation start: %w", err)
	}

	snapshot, err := c.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile for conversation start: %w", err)
	}

	sess := &session{
		state:    StateAwaitingName,
		username: username,
		snapshot: snapshot,
	}

	c.mu.Lock()
	c.sessions[userID] = sess
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "Conversation started",
		"user_id", userID, "has_profile", snapshot != nil)
	return c.prompt(sess), nil
}

// Handle feeds one event into the user's session. It returns nil, nil when
// the user has no active session, letting the caller fall back to command
// dispatch.
func (c *Controller) Handle(ctx context.Context, userID int64, ev Event) (*Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, ok := c.sessions[userID]
	if !ok {
		return nil, nil
	}

	// Cancel works from every state; nothing partial persists.
	if ev.Kind == EventCancel {
		delete(c.sessions, userID)
		c.logger.DebugContext(ctx, "Conversation cancelled", "user_id", userID, "state", sess.state)
		return &Reply{
			Text:           "Okay, nothing was changed. Use /start whenever you're ready.",
			RemoveKeyboard: true,
			Cancelled:      true,
		}, nil
	}

	switch sess.state {
	case StateAwaitingName:
		return c.handleName(sess, ev), nil
	case StateAwaitingAge:
		return c.handleAge(sess, ev), nil
	case StateAwaitingGender:
		return c.handleGender(sess, ev), nil
	case StateAwaitingPreference:
		return c.handlePreference(sess, ev), nil
	case StateAwaitingMedia:
		return c.handleMedia(ctx, userID, sess, ev), nil
	case StateAwaitingBio:
		return c.handleBio(ctx, userID, sess, ev)
	default:
		delete(c.sessions, userID)
		return nil, fmt.Errorf("session for user %d in unknown state %q", userID, sess.state)
	}
}

// Active reports whether the user has a session in flight.
func (c *Controller) Active(userID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.sessions[userID]
	return ok
}

// prompt builds the question for the session's current state, including its
// keyboard. A prompt without buttons clears any keyboard left from the
// previous step.
func (c *Controller) prompt(s *session) *Reply {
	var reply *Reply

	switch s.state {
	case StateAwaitingName:
		reply = &Reply{Text: "👋 Let's set up your profile! What's your name?"}
		if name := s.priorName(); name != "" {
			reply.Buttons = [][]string{{KeepNameButton(name)}}
		}

	case StateAwaitingAge:
		reply = &Reply{Text: "How old are you?"}
		if age := s.priorAge(); age >= minAge && age <= maxAge {
			reply.Buttons = [][]string{{KeepAgeButton(age)}}
		}

	case StateAwaitingGender:
		reply = &Reply{Text: "Are you a man or a woman?"}
		reply.Buttons = [][]string{{ChoiceMale, ChoiceFemale}}
		if gender := s.priorGender(); gender != "" {
			reply.Buttons = append(reply.Buttons, []string{KeepGenderButton(gender)})
		}

	case StateAwaitingPreference:
		reply = &Reply{Text: "Who are you looking for?"}
		reply.Buttons = [][]string{{ChoiceMen, ChoiceWomen}}
		if preferred := s.priorPreference(); preferred != "" {
			reply.Buttons = append(reply.Buttons, []string{KeepPreferenceButton(preferred)})
		}

	case StateAwaitingMedia:
		reply = &Reply{Text: fmt.Sprintf(
			"📸 Send up to %d photos or videos, one at a time. A direct link works too.",
			maxMediaRefs)}
		reply.Buttons = c.mediaButtons(s)

	case StateAwaitingBio:
		reply = &Reply{Text: "Now tell people a bit about yourself."}
		if s.priorBio() != "" {
			reply.Buttons = [][]string{{ButtonKeepBio}}
		}

	default:
		reply = &Reply{Text: "Something went wrong, please /start again."}
	}

	reply.RemoveKeyboard = len(reply.Buttons) == 0
	return reply
}

// rePrompt keeps the session in place and re-asks with a correction message.
func (c *Controller) rePrompt(s *session, msg string) *Reply {
	reply := c.prompt(s)
	reply.Text = msg
	return reply
}

func (c *Controller) mediaButtons(s *session) [][]string {
	switch {
	case s.mediaStarted:
		return [][]string{{ButtonDoneMedia}}
	case len(s.priorMedia()) > 0:
		return [][]string{{ButtonKeepMedia}, {ButtonSkip}}
	default:
		return [][]string{{ButtonSkip}}
	}
}

func (c *Controller) handleName(s *session, ev Event) *Reply {
	if ev.Kind != EventText {
		return c.rePrompt(s, "Please send your name as text.")
	}

	if prior := s.priorName(); prior != "" && ev.Text == KeepNameButton(prior) {
		s.displayName = prior
		s.state = StateAwaitingAge
		return c.prompt(s)
	}

	name := text.NormalizeLine(ev.Text)
	if n := len([]rune(name)); n < minNameRunes || n > maxNameRunes {
		return c.rePrompt(s, fmt.Sprintf(
			"Please send a name between %d and %d characters.", minNameRunes, maxNameRunes))
	}

	s.displayName = name
	s.state = StateAwaitingAge
	return c.prompt(s)
}

func (c *Controller) handleAge(s *session, ev Event) *Reply {
	if ev.Kind != EventText {
		return c.rePrompt(s, "Please send your age as a number.")
	}

	if prior := s.priorAge(); prior >= minAge && prior <= maxAge && ev.Text == KeepAgeButton(prior) {
		s.age = prior
		s.state = StateAwaitingGender
		return c.prompt(s)
	}

	age, err := strconv.Atoi(strings.TrimSpace(ev.Text))
	if err != nil || age < minAge || age > maxAge {
		return c.rePrompt(s, fmt.Sprintf(
			"Please send your age as a number from %d to %d.", minAge, maxAge))
	}

	s.age = age
	s.state = StateAwaitingGender
	return c.prompt(s)
}

func (c *Controller) handleGender(s *session, ev Event) *Reply {
	if ev.Kind != EventText {
		return c.rePrompt(s, "Please pick one of the buttons.")
	}

	switch {
	case ev.Text == ChoiceMale:
		s.gender = database.GenderMale
	case ev.Text == ChoiceFemale:
		s.gender = database.GenderFemale
	case s.priorGender() != "" && ev.Text == KeepGenderButton(s.priorGender()):
		s.gender = s.priorGender()
	default:
		return c.rePrompt(s, "Please pick one of the buttons.")
	}

	s.state = StateAwaitingPreference
	return c.prompt(s)
}

func (c *Controller) handlePreference(s *session, ev Event) *Reply {
	if ev.Kind != EventText {
		return c.rePrompt(s, "Please pick one of the buttons.")
	}

	switch {
	case ev.Text == ChoiceMen:
		s.preferredGender = database.GenderMale
	case ev.Text == ChoiceWomen:
		s.preferredGender = database.GenderFemale
	case s.priorPreference() != "" && ev.Text == KeepPreferenceButton(s.priorPreference()):
		s.preferredGender = s.priorPreference()
	default:
		return c.rePrompt(s, "Please pick one of the buttons.")
	}

	s.state = StateAwaitingMedia
	return c.prompt(s)
}

func (c *Controller) handleMedia(ctx context.Context, userID int64, s *session, ev Event) *Reply {
	if ev.Kind == EventMedia && ev.Media != nil {
		return c.collectMediaRef(s, *ev.Media)
	}

	input := strings.TrimSpace(ev.Text)

	switch {
	case s.mediaStarted && input == ButtonDoneMedia:
		s.state = StateAwaitingBio
		return c.prompt(s)

	case !s.mediaStarted && len(s.priorMedia()) > 0 && input == ButtonKeepMedia:
		s.media = s.priorMedia()
		s.state = StateAwaitingBio
		return c.prompt(s)

	case !s.mediaStarted && input == ButtonSkip:
		// Going without attachments falls back to the user's profile photo
		// when one can be resolved.
		s.media = nil
		if ref := c.defaultAvatar(ctx, userID); ref != nil {
			s.media = database.MediaRefs{*ref}
		}
		s.state = StateAwaitingBio
		return c.prompt(s)
	}

	if kind, ok := mediaURLKind(input); ok {
		return c.collectMediaRef(s, database.MediaRef{Kind: kind, SourceURL: input})
	}

	return c.rePrompt(s, "Please send a photo, a video, or a direct link.")
}

// defaultAvatar asks the resolver for the user's profile picture. Lookup
// failures only disable the fallback.
func (c *Controller) defaultAvatar(ctx context.Context, userID int64) *database.MediaRef {
	if c.avatars == nil {
		return nil
	}

	ref, err := c.avatars.ResolveAvatar(ctx, userID)
	if err != nil {
		c.logger.WarnContext(ctx, "Profile photo lookup failed", "user_id", userID, "error", err)
		return nil
	}
	return ref
}

func (c *Controller) collectMediaRef(s *session, ref database.MediaRef) *Reply {
	if !ref.Resolvable() {
		return c.rePrompt(s, "That attachment can't be used, please try another one.")
	}

	// The first new attachment starts a fresh list; the snapshot's media no
	// longer applies.
	if !s.mediaStarted {
		s.media = nil
		s.mediaStarted = true
	}

	if len(s.media) >= maxMediaRefs {
		return c.rePrompt(s, fmt.Sprintf(
			"That's the maximum of %d. Press %s to continue.", maxMediaRefs, ButtonDoneMedia))
	}

	s.media = append(s.media, ref)

	if len(s.media) == maxMediaRefs {
		return c.rePrompt(s, fmt.Sprintf(
			"Added %d of %d. Press %s to continue.", len(s.media), maxMediaRefs, ButtonDoneMedia))
	}
	return c.rePrompt(s, fmt.Sprintf(
		"Added %d of %d. Send more or press %s.", len(s.media), maxMediaRefs, ButtonDoneMedia))
}

func (c *Controller) handleBio(ctx context.Context, userID int64, s *session, ev Event) (*Reply, error) {
	if ev.Kind != EventText {
		return c.rePrompt(s, "Please send your bio as text."), nil
	}

	var bio string
	if prior := s.priorBio(); prior != "" && ev.Text == ButtonKeepBio {
		bio = prior
	} else {
		bio = text.NormalizeBlock(ev.Text)
		if n := len([]rune(bio)); n < minBioRunes || n > maxBioRunes {
			return c.rePrompt(s, fmt.Sprintf(
				"Please send a bio between %d and %d characters.", minBioRunes, maxBioRunes)), nil
		}
	}

	profile := s.buildProfile(userID, bio)
	if err := c.store.SetProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save completed profile: %w", err)
	}

	delete(c.sessions, userID)

	c.logger.InfoContext(ctx, "Profile collection finished",
		"user_id", userID, "media_count", len(profile.Media))

	return &Reply{
		Text:           "🎉 Your profile is saved! Use /browse to start meeting people.",
		RemoveKeyboard: true,
		Done:           true,
		Profile:        profile,
	}, nil
}
