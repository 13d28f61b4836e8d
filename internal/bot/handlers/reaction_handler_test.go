package handlers

import (
	"testing"

	"github.com/go-telegram/bot/models"

	"github.com/kolotov/svahabot/internal/conversation"
	"github.com/kolotov/svahabot/internal/database"
)

func TestParseReactionData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		data       string
		wantStatus string
		wantID     int64
		wantErr    bool
	}{
		{name: "like", data: "like_42", wantStatus: database.ReactionLike, wantID: 42},
		{name: "skip", data: "skip_7", wantStatus: database.ReactionSkip, wantID: 7},
		{name: "unknown prefix", data: "nuke_42", wantErr: true},
		{name: "missing id", data: "like_", wantErr: true},
		{name: "non-numeric id", data: "like_abc", wantErr: true},
		{name: "negative id", data: "skip_-3", wantErr: true},
		{name: "empty", data: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, id, err := parseReactionData(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseReactionData(%q) error = nil, want error", tt.data)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseReactionData(%q) unexpected error: %v", tt.data, err)
			}
			if status != tt.wantStatus || id != tt.wantID {
				t.Errorf("parseReactionData(%q) = (%q, %d), want (%q, %d)",
					tt.data, status, id, tt.wantStatus, tt.wantID)
			}
		})
	}
}

func TestBroadcastText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "bare command", text: "/broadcast", want: ""},
		{name: "with text", text: "/broadcast hello everyone", want: "hello everyone"},
		{name: "mention form", text: "/broadcast@svahabot hello", want: "hello"},
		{name: "trailing space only", text: "/broadcast   ", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := broadcastText(tt.text); got != tt.want {
				t.Errorf("broadcastText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestMessageEvent(t *testing.T) {
	t.Parallel()

	t.Run("text message", func(t *testing.T) {
		t.Parallel()

		ev := messageEvent(&models.Message{Text: "hello"})
		if ev.Kind != conversation.EventText || ev.Text != "hello" {
			t.Errorf("messageEvent() = %+v, want text event %q", ev, "hello")
		}
	})

	t.Run("photo picks largest size", func(t *testing.T) {
		t.Parallel()

		msg := &models.Message{Photo: []models.PhotoSize{
			{FileID: "small", Width: 90, Height: 90},
			{FileID: "large", Width: 800, Height: 600},
			{FileID: "medium", Width: 320, Height: 240},
		}}

		ev := messageEvent(msg)
		if ev.Kind != conversation.EventMedia {
			t.Fatalf("messageEvent() kind = %q, want %q", ev.Kind, conversation.EventMedia)
		}
		if ev.Media.Kind != database.MediaKindPhoto || ev.Media.Handle != "large" {
			t.Errorf("messageEvent() media = %+v, want largest photo", ev.Media)
		}
	})

	t.Run("video", func(t *testing.T) {
		t.Parallel()

		ev := messageEvent(&models.Message{Video: &models.Video{FileID: "vid1"}})
		if ev.Kind != conversation.EventMedia || ev.Media.Kind != database.MediaKindVideo || ev.Media.Handle != "vid1" {
			t.Errorf("messageEvent() = %+v, want video event", ev)
		}
	})
}
