// Package conversation implements the step-by-step profile collection flow.
// Each user has at most one active session, advanced one message at a time
// until the profile is saved or the session is cancelled.
package conversation

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/kolotov/svahabot/internal/database"
)

// State identifies which profile field the session is waiting for.
type State string

const (
	StateAwaitingName       State = "awaiting_name"
	StateAwaitingAge        State = "awaiting_age"
	StateAwaitingGender     State = "awaiting_gender"
	StateAwaitingPreference State = "awaiting_preference"
	StateAwaitingMedia      State = "awaiting_media"
	StateAwaitingBio        State = "awaiting_bio"
)

// EventKind classifies an incoming update for the session.
type EventKind string

const (
	EventText   EventKind = "text"
	EventMedia  EventKind = "media"
	EventCancel EventKind = "cancel"
)

// Event is one user input fed into an active session. Text events carry the
// message text; media events carry a ref built from the received attachment.
type Event struct {
	Kind  EventKind
	Text  string
	Media *database.MediaRef
}

// Reply tells the transport what to send back. Buttons are reply keyboard
// rows; RemoveKeyboard clears a previously shown keyboard. Done is set once
// the profile has been saved, with Profile carrying the saved record.
// Cancelled is set when the session was discarded without saving.
type Reply struct {
	Text           string
	Buttons        [][]string
	RemoveKeyboard bool
	Done           bool
	Cancelled      bool
	Profile        *database.Profile
}

// Fixed choice labels shown as reply keyboard buttons.
const (
	ChoiceMale   = "Male"
	ChoiceFemale = "Female"
	ChoiceMen    = "Men"
	ChoiceWomen  = "Women"

	ButtonSkip      = "Skip"
	ButtonDoneMedia = "Done"
	ButtonKeepMedia = "Keep current media"
	ButtonKeepBio   = "Keep bio"
)

const (
	minNameRunes = 2
	maxNameRunes = 64
	minAge       = 16
	maxAge       = 100
	minBioRunes  = 5
	maxBioRunes  = 1000
	maxMediaRefs = 3
)

// KeepNameButton is the keep-previous button label for the name step. The
// label embeds the current value so the user sees exactly what stays.
func KeepNameButton(name string) string {
	return fmt.Sprintf("Keep name: %s", name)
}

// KeepAgeButton is the keep-previous button label for the age step.
func KeepAgeButton(age int) string {
	return fmt.Sprintf("Keep age: %d", age)
}

// KeepGenderButton is the keep-previous button label for the gender step.
func KeepGenderButton(gender string) string {
	return fmt.Sprintf("Keep gender: %s", genderLabel(gender))
}

// KeepPreferenceButton is the keep-previous button label for the preference step.
func KeepPreferenceButton(preferred string) string {
	return fmt.Sprintf("Keep preference: %s", preferenceLabel(preferred))
}

func genderLabel(code string) string {
	switch code {
	case database.GenderMale:
		return ChoiceMale
	case database.GenderFemale:
		return ChoiceFemale
	}
	return code
}

func preferenceLabel(code string) string {
	switch code {
	case database.GenderMale:
		return ChoiceMen
	case database.GenderFemale:
		return ChoiceWomen
	}
	return code
}

// mediaURLKind reports whether raw is a fetchable media link and which kind
// of attachment its extension suggests.
func mediaURLKind(raw string) (kind string, ok bool) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "", false
	}
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return "", false
	}

	switch strings.ToLower(path.Ext(parsed.Path)) {
	case ".mp4", ".mov", ".m4v", ".webm":
		return database.MediaKindVideo, true
	default:
		return database.MediaKindPhoto, true
	}
}
