package handlers_test

import (
	"testing"

	"github.com/kolotov/svahabot/internal/bot/handlers"
	"github.com/kolotov/svahabot/internal/database"
)

func TestFormatCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile *database.Profile
		want    string
	}{
		{
			name: "complete profile",
			profile: &database.Profile{
				DisplayName:     "Ann",
				Age:             24,
				Gender:          database.GenderFemale,
				PreferredGender: database.GenderMale,
				Bio:             "Coffee, climbing, bad puns.",
			},
			want: "Ann, 24\nGender: Female\nLooking for: Men\nCoffee, climbing, bad puns.",
		},
		{
			name: "male looking for women",
			profile: &database.Profile{
				DisplayName:     "Bob",
				Age:             31,
				Gender:          database.GenderMale,
				PreferredGender: database.GenderFemale,
				Bio:             "Ask me about sourdough.",
			},
			want: "Bob, 31\nGender: Male\nLooking for: Women\nAsk me about sourdough.",
		},
		{
			name: "unset fields fall back",
			profile: &database.Profile{
				DisplayName: "Kim",
				Age:         29,
			},
			want: "Kim, 29\nGender: Not set\nLooking for: Not set\nNo bio yet.",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := handlers.FormatCard(tt.profile); got != tt.want {
				t.Errorf("FormatCard() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContactLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		profile *database.Profile
		want    string
	}{
		{
			name:    "username preferred",
			profile: &database.Profile{UserID: 42, Username: "ann"},
			want:    "@ann",
		},
		{
			name:    "falls back to user link",
			profile: &database.Profile{UserID: 42},
			want:    "tg://user?id=42",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := handlers.ContactLine(tt.profile); got != tt.want {
				t.Errorf("ContactLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
