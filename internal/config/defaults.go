package config

import "time"

// Default values for optional configuration parameters.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultDBPath = "svahabot.db"

	DefaultMediaFetchTimeout = 10 * time.Second
)

// DefaultMessages holds the default user-facing message strings.
var DefaultMessages = MessagesConfig{
	Welcome:              "👋 Welcome! Let's set up your dating profile.",
	Help:                 "Commands:\n/start - create or edit your profile\n/profile - show your profile\n/browse - see other profiles\n/cancel - abort the current step\n/reset - clear your profile and start over\n/delete - remove your profile permanently\n/support - contact support",
	Support:              "🛟 Questions or trouble? Write to the maintainer: @svahabot_support",
	ErrorUnauthorizedMsg: "🚫 Access denied.",
	ErrorGeneralMsg:      "❌ Something went wrong. Please try again later.",
	NoSessionHintMsg:     "Use /start to set up your profile, or /browse to meet people.",
	ActiveSessionMsg:     "You're in the middle of profile setup. Finish it or send /cancel first.",
	ProfileIncompleteMsg: "📝 Finish your profile with /start before browsing.",
	ProfileMissingMsg:    "You don't have a profile yet. Send /start to create one.",
	NoCandidatesMsg:      "😴 No new profiles right now. Check back later!",
	MatchHeaderMsg:       "🎉 It's a match!",
	ResetDoneMsg:         "🔄 Your profile was cleared. Let's fill it in again!",
	ResetTimeoutMsg:      "⏱️ Reset took too long. Please try again.",
	DeleteConfirmMsg:     "⚠️ Delete your profile and all your reactions permanently?",
	DeleteDoneMsg:        "🗑️ Your profile is gone. Send /start whenever you want to come back.",
	DeleteCancelledMsg:   "Deletion cancelled.",
	BroadcastUsageMsg:    "Usage: /broadcast <text>",
	BroadcastReportFmt:   "📣 Broadcast delivered to %d users (%d failed).",
}
