package conversation_test

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/kolotov/svahabot/internal/conversation"
	"github.com/kolotov/svahabot/internal/database"
)

func newTestController(t *testing.T) (*conversation.Controller, database.Store) {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := database.NewStore(db, logger)
	return conversation.NewController(store, nil, logger), store
}

// stubAvatars resolves every user to the same profile photo ref.
type stubAvatars struct {
	ref *database.MediaRef
	err error
}

func (s stubAvatars) ResolveAvatar(_ context.Context, _ int64) (*database.MediaRef, error) {
	return s.ref, s.err
}

func textEvent(s string) conversation.Event {
	return conversation.Event{Kind: conversation.EventText, Text: s}
}

func photoEvent(handle string) conversation.Event {
	return conversation.Event{
		Kind:  conversation.EventMedia,
		Media: &database.MediaRef{Kind: database.MediaKindPhoto, Handle: handle},
	}
}

func begin(t *testing.T, c *conversation.Controller, userID int64, username string) *conversation.Reply {
	t.Helper()

	reply, err := c.Begin(context.Background(), userID, username)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if reply == nil {
		t.Fatal("Begin returned nil reply")
	}
	return reply
}

func step(t *testing.T, c *conversation.Controller, userID int64, ev conversation.Event) *conversation.Reply {
	t.Helper()

	reply, err := c.Handle(context.Background(), userID, ev)
	if err != nil {
		t.Fatalf("Handle(%+v) failed: %v", ev, err)
	}
	if reply == nil {
		t.Fatalf("Handle(%+v) found no active session", ev)
	}
	return reply
}

func TestFullFlowFreshUser(t *testing.T) {
	t.Parallel()

	c, store := newTestController(t)
	ctx := context.Background()

	begin(t, c, 1, "ann")

	step(t, c, 1, textEvent("Ann"))
	step(t, c, 1, textEvent("17"))

	genderPrompt := step(t, c, 1, textEvent("")) // empty input keeps asking
	if len(genderPrompt.Buttons) == 0 {
		t.Fatal("age reprompt lost its keyboard")
	}

	step(t, c, 1, textEvent(conversation.ChoiceFemale))
	mediaPrompt := step(t, c, 1, textEvent(conversation.ChoiceMen))
	if !hasButton(mediaPrompt.Buttons, conversation.ButtonSkip) {
		t.Errorf("media prompt without skip button: %v", mediaPrompt.Buttons)
	}

	step(t, c, 1, textEvent(conversation.ButtonSkip))
	final := step(t, c, 1, textEvent("Love hiking"))

	if !final.Done {
		t.Fatal("final reply not marked done")
	}
	if final.Profile == nil {
		t.Fatal("final reply carries no profile")
	}
	if !final.RemoveKeyboard {
		t.Error("final reply must clear the keyboard")
	}

	saved, err := store.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if saved == nil {
		t.Fatal("profile not persisted")
	}
	if saved.DisplayName != "Ann" || saved.Age != 17 {
		t.Errorf("saved (%q, %d), want (Ann, 17)", saved.DisplayName, saved.Age)
	}
	if saved.Gender != database.GenderFemale || saved.PreferredGender != database.GenderMale {
		t.Errorf("saved genders (%q, %q), want (female, male)", saved.Gender, saved.PreferredGender)
	}
	if saved.Bio != "Love hiking" {
		t.Errorf("saved bio %q, want %q", saved.Bio, "Love hiking")
	}
	if !saved.Completed {
		t.Error("saved profile not completed")
	}
	if saved.Username != "ann" {
		t.Errorf("saved username %q, want %q", saved.Username, "ann")
	}

	if c.Active(1) {
		t.Error("session still active after completion")
	}
}

func TestValidationRejectsAndRecovers(t *testing.T) {
	t.Parallel()

	c, store := newTestController(t)
	ctx := context.Background()

	begin(t, c, 1, "bob")

	// Each invalid input is followed by a valid one; the final profile must
	// carry only the valid values.
	step(t, c, 1, textEvent("B"))
	step(t, c, 1, textEvent("Bob"))

	step(t, c, 1, textEvent("15"))
	step(t, c, 1, textEvent("101"))
	step(t, c, 1, textEvent("not a number"))
	step(t, c, 1, textEvent("16"))

	step(t, c, 1, textEvent("something else"))
	step(t, c, 1, textEvent(conversation.ChoiceMale))

	step(t, c, 1, textEvent(conversation.ChoiceFemale)) // gender label, not a preference
	step(t, c, 1, textEvent(conversation.ChoiceWomen))

	step(t, c, 1, textEvent(conversation.ButtonSkip))

	step(t, c, 1, textEvent("hey"))
	final := step(t, c, 1, textEvent("hello"))
	if !final.Done {
		t.Fatal("flow did not finish after valid inputs")
	}

	saved, err := store.GetProfile(ctx, 1)
	if err != nil || saved == nil {
		t.Fatalf("GetProfile failed: profile=%v err=%v", saved, err)
	}
	if saved.DisplayName != "Bob" {
		t.Errorf("DisplayName = %q, want Bob (single letter must be rejected)", saved.DisplayName)
	}
	if saved.Age != 16 {
		t.Errorf("Age = %d, want 16 (out-of-range ages must be rejected)", saved.Age)
	}
	if saved.Bio != "hello" {
		t.Errorf("Bio = %q, want hello (short bio must be rejected)", saved.Bio)
	}
}

func TestAgeBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		valid bool
	}{
		{"15", false},
		{"16", true},
		{"100", true},
		{"101", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			c, _ := newTestController(t)
			begin(t, c, 1, "edge")
			step(t, c, 1, textEvent("Edge"))

			step(t, c, 1, textEvent(tt.input))
			// A valid age advances to gender, where the male button works. An
			// invalid age stays on the age step, where the same text fails.
			after := step(t, c, 1, textEvent(conversation.ChoiceMale))

			advanced := hasButton(after.Buttons, conversation.ChoiceMen)
			if tt.valid && !advanced {
				t.Errorf("age %s rejected, want accepted", tt.input)
			}
			if !tt.valid && advanced {
				t.Errorf("age %s accepted, want rejected", tt.input)
			}
		})
	}
}

func TestKeepPreviousRoundTrip(t *testing.T) {
	t.Parallel()

	c, store := newTestController(t)
	ctx := context.Background()

	existing := &database.Profile{
		UserID:          1,
		Username:        "kim",
		DisplayName:     "Kim",
		Age:             33,
		Gender:          database.GenderFemale,
		PreferredGender: database.GenderFemale,
		Bio:             "Already written bio",
		Media: database.MediaRefs{
			{Kind: database.MediaKindPhoto, Handle: "old-photo"},
			{Kind: database.MediaKindVideo, Handle: "old-video"},
		},
		Completed: true,
	}
	if err := store.SetProfile(ctx, existing); err != nil {
		t.Fatalf("SetProfile failed: %v", err)
	}

	first := begin(t, c, 1, "kim")
	if !hasButton(first.Buttons, conversation.KeepNameButton("Kim")) {
		t.Fatalf("name prompt missing keep button: %v", first.Buttons)
	}

	step(t, c, 1, textEvent(conversation.KeepNameButton("Kim")))
	step(t, c, 1, textEvent(conversation.KeepAgeButton(33)))
	step(t, c, 1, textEvent(conversation.KeepGenderButton(database.GenderFemale)))
	mediaPrompt := step(t, c, 1, textEvent(conversation.KeepPreferenceButton(database.GenderFemale)))
	if !hasButton(mediaPrompt.Buttons, conversation.ButtonKeepMedia) {
		t.Fatalf("media prompt missing keep button: %v", mediaPrompt.Buttons)
	}

	step(t, c, 1, textEvent(conversation.ButtonKeepMedia))
	final := step(t, c, 1, textEvent(conversation.ButtonKeepBio))
	if !final.Done {
		t.Fatal("keep-previous flow did not finish")
	}

	saved, err := store.GetProfile(ctx, 1)
	if err != nil || saved == nil {
		t.Fatalf("GetProfile failed: profile=%v err=%v", saved, err)
	}

	if saved.DisplayName != existing.DisplayName ||
		saved.Age != existing.Age ||
		saved.Gender != existing.Gender ||
		saved.PreferredGender != existing.PreferredGender ||
		saved.Bio != existing.Bio {
		t.Errorf("kept fields diverged: got %+v", saved)
	}
	if !reflect.DeepEqual(saved.Media, existing.Media) {
		t.Errorf("kept media diverged: got %+v, want %+v", saved.Media, existing.Media)
	}
}

func TestMediaCollection(t *testing.T) {
	t.Parallel()

	c, store := newTestController(t)
	ctx := context.Background()

	begin(t, c, 1, "mel")
	step(t, c, 1, textEvent("Mel"))
	step(t, c, 1, textEvent("25"))
	step(t, c, 1, textEvent(conversation.ChoiceFemale))
	step(t, c, 1, textEvent(conversation.ChoiceMen))

	step(t, c, 1, photoEvent("p1"))
	step(t, c, 1, photoEvent("p2"))
	step(t, c, 1, photoEvent("p3"))
	step(t, c, 1, photoEvent("p4")) // over the cap, must be dropped
	step(t, c, 1, textEvent(conversation.ButtonDoneMedia))
	final := step(t, c, 1, textEvent("Tea and vinyl"))
	if !final.Done {
		t.Fatal("flow did not finish")
	}

	saved, err := store.GetProfile(ctx, 1)
	if err != nil || saved == nil {
		t.Fatalf("GetProfile failed: profile=%v err=%v", saved, err)
	}
	if len(saved.Media) != 3 {
		t.Fatalf("len(Media) = %d, want 3", len(saved.Media))
	}
	for i, want := range []string{"p1", "p2", "p3"} {
		if saved.Media[i].Handle != want {
			t.Errorf("Media[%d].Handle = %q, want %q", i, saved.Media[i].Handle, want)
		}
	}
}

func TestNewMediaReplacesOld(t *testing.T) {
	t.Parallel()

	c, store := newTestController(t)
	ctx := context.Background()

	if err := store.SetProfile(ctx, &database.Profile{
		UserID: 1, Username: "re", DisplayName: "Re", Age: 30,
		Gender: database.GenderMale, PreferredGender: database.GenderFemale,
		Bio: "old bio here",
		Media: database.MediaRefs{
			{Kind: database.MediaKindPhoto, Handle: "old-1"},
			{Kind: database.MediaKindPhoto, Handle: "old-2"},
		},
		Completed: true,
	}); err != nil {
		t.Fatalf("SetProfile failed: %v", err)
	}

	begin(t, c, 1, "re")
	step(t, c, 1, textEvent(conversation.KeepNameButton("Re")))
	step(t, c, 1, textEvent(conversation.KeepAgeButton(30)))
	step(t, c, 1, textEvent(conversation.KeepGenderButton(database.GenderMale)))
	step(t, c, 1, textEvent(conversation.KeepPreferenceButton(database.GenderFemale)))

	step(t, c, 1, photoEvent("fresh"))
	step(t, c, 1, textEvent(conversation.ButtonDoneMedia))
	final := step(t, c, 1, textEvent(conversation.ButtonKeepBio))
	if !final.Done {
		t.Fatal("flow did not finish")
	}

	saved, err := store.GetProfile(ctx, 1)
	if err != nil || saved == nil {
		t.Fatalf("GetProfile failed: profile=%v err=%v", saved, err)
	}
	if len(saved.Media) != 1 || saved.Media[0].Handle != "fresh" {
		t.Errorf("Media = %+v, want only the fresh attachment", saved.Media)
	}
}

func TestMediaLinks(t *testing.T) {
	t.Parallel()

	c, store := newTestController(t)
	ctx := context.Background()

	begin(t, c, 1, "lin")
	step(t, c, 1, textEvent("Lin"))
	step(t, c, 1, textEvent("28"))
	step(t, c, 1, textEvent(conversation.ChoiceFemale))
	step(t, c, 1, textEvent(conversation.ChoiceWomen))

	step(t, c, 1, textEvent("https://example.com/me.jpg"))
	step(t, c, 1, textEvent("https://example.com/clip.mp4"))
	step(t, c, 1, textEvent(conversation.ButtonDoneMedia))
	final := step(t, c, 1, textEvent("Linked media bio"))
	if !final.Done {
		t.Fatal("flow did not finish")
	}

	saved, err := store.GetProfile(ctx, 1)
	if err != nil || saved == nil {
		t.Fatalf("GetProfile failed: profile=%v err=%v", saved, err)
	}
	if len(saved.Media) != 2 {
		t.Fatalf("len(Media) = %d, want 2", len(saved.Media))
	}
	if saved.Media[0].Kind != database.MediaKindPhoto ||
		saved.Media[0].SourceURL != "https://example.com/me.jpg" {
		t.Errorf("Media[0] = %+v, want photo link", saved.Media[0])
	}
	if saved.Media[1].Kind != database.MediaKindVideo ||
		saved.Media[1].SourceURL != "https://example.com/clip.mp4" {
		t.Errorf("Media[1] = %+v, want video link", saved.Media[1])
	}
}

func TestCancelFromAnyState(t *testing.T) {
	t.Parallel()

	c, store := newTestController(t)
	ctx := context.Background()

	begin(t, c, 1, "quit")
	step(t, c, 1, textEvent("Quit"))
	step(t, c, 1, textEvent("25"))

	cancelReply := step(t, c, 1, conversation.Event{Kind: conversation.EventCancel})
	if !cancelReply.Cancelled {
		t.Error("cancel reply not marked cancelled")
	}
	if !cancelReply.RemoveKeyboard {
		t.Error("cancel must clear the keyboard")
	}
	if c.Active(1) {
		t.Error("session still active after cancel")
	}

	// Nothing partial persisted: the identity row exists but stays incomplete.
	saved, err := store.GetProfile(ctx, 1)
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if saved == nil {
		t.Fatal("identity row missing after Begin")
	}
	if saved.Completed || saved.DisplayName != "" || saved.Age != 0 {
		t.Errorf("cancelled session persisted data: %+v", saved)
	}

	reply, err := c.Handle(ctx, 1, textEvent("25"))
	if err != nil {
		t.Fatalf("Handle after cancel failed: %v", err)
	}
	if reply != nil {
		t.Errorf("cancelled session still handled input: %+v", reply)
	}

	reply, err = c.Handle(ctx, 1, conversation.Event{Kind: conversation.EventCancel})
	if err != nil {
		t.Fatalf("cancel without session failed: %v", err)
	}
	if reply != nil {
		t.Errorf("cancel without session produced a reply: %+v", reply)
	}
}

func TestSkipFallsBackToProfilePhoto(t *testing.T) {
	t.Parallel()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := database.NewStore(db, logger)

	avatar := &database.MediaRef{Kind: database.MediaKindPhoto, Handle: "tg-avatar"}
	c := conversation.NewController(store, stubAvatars{ref: avatar}, logger)
	ctx := context.Background()

	begin(t, c, 1, "ava")
	step(t, c, 1, textEvent("Ava"))
	step(t, c, 1, textEvent("29"))
	step(t, c, 1, textEvent(conversation.ChoiceFemale))
	step(t, c, 1, textEvent(conversation.ChoiceMen))
	step(t, c, 1, textEvent(conversation.ButtonSkip))
	final := step(t, c, 1, textEvent("Fallback avatar bio"))
	if !final.Done {
		t.Fatal("flow did not finish")
	}

	saved, err := store.GetProfile(ctx, 1)
	if err != nil || saved == nil {
		t.Fatalf("GetProfile failed: profile=%v err=%v", saved, err)
	}
	if len(saved.Media) != 1 || saved.Media[0].Handle != "tg-avatar" {
		t.Errorf("Media = %+v, want the resolved profile photo", saved.Media)
	}
}

func TestHandleWithoutSession(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t)

	reply, err := c.Handle(context.Background(), 42, textEvent("hello"))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if reply != nil {
		t.Errorf("no-session handle produced a reply: %+v", reply)
	}
}

func TestBeginRestartsSession(t *testing.T) {
	t.Parallel()

	c, store := newTestController(t)
	ctx := context.Background()

	begin(t, c, 1, "two")
	step(t, c, 1, textEvent("First"))
	step(t, c, 1, textEvent("40"))

	// Restart mid-flight: collection returns to the name step.
	begin(t, c, 1, "two")
	step(t, c, 1, textEvent("Second"))
	step(t, c, 1, textEvent("41"))
	step(t, c, 1, textEvent(conversation.ChoiceMale))
	step(t, c, 1, textEvent(conversation.ChoiceWomen))
	step(t, c, 1, textEvent(conversation.ButtonSkip))
	final := step(t, c, 1, textEvent("Restarted bio"))
	if !final.Done {
		t.Fatal("restarted flow did not finish")
	}

	saved, err := store.GetProfile(ctx, 1)
	if err != nil || saved == nil {
		t.Fatalf("GetProfile failed: profile=%v err=%v", saved, err)
	}
	if saved.DisplayName != "Second" || saved.Age != 41 {
		t.Errorf("saved (%q, %d), want restart values (Second, 41)", saved.DisplayName, saved.Age)
	}
}

func hasButton(rows [][]string, label string) bool {
	for _, row := range rows {
		for _, b := range row {
			if b == label {
				return true
			}
		}
	}
	return false
}
