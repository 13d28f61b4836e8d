// Package config provides configuration loading, validation, and management
// for the svahabot application. It handles reading from YAML files, applying
// default values, and validating configuration parameters.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
)

// Config defines the application configuration for all components of the
// svahabot system: logging, Telegram transport, database, media resolution,
// user-facing messages, and scheduled tasks.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Media     MediaConfig     `mapstructure:"media"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls log verbosity and output format.
type LoggerConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text pretty"`
}

// TelegramConfig holds transport credentials and authorization settings.
// BotInfo is populated at runtime after a successful GetMe call and is not
// read from the configuration file.
type TelegramConfig struct {
	Token        string  `mapstructure:"token"          validate:"required"`
	AdminUserIDs []int64 `mapstructure:"admin_user_ids" validate:"dive,gt=0"`
	Offline      bool    `mapstructure:"offline"`

	BotInfo *models.User `mapstructure:"-" validate:"-"`
}

// IsAdmin reports whether the given user ID is on the admin allow-list.
func (t TelegramConfig) IsAdmin(userID int64) bool {
	for _, id := range t.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// MediaConfig bounds media resolution over the network.
type MediaConfig struct {
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" validate:"required,min=1s,max=2m"`
}

// MessagesConfig holds user-facing message strings outside the conversation
// flow. Conversation prompts and button labels live with the state machine,
// since exact-match dispatch depends on them.
type MessagesConfig struct {
	Welcome              string `mapstructure:"welcome"`
	Help                 string `mapstructure:"help"`
	Support              string `mapstructure:"support"`
	ErrorUnauthorizedMsg string `mapstructure:"error_unauthorized"`
	ErrorGeneralMsg      string `mapstructure:"error_general"`
	NoSessionHintMsg     string `mapstructure:"no_session_hint"`
	ActiveSessionMsg     string `mapstructure:"active_session"`
	ProfileIncompleteMsg string `mapstructure:"profile_incomplete"`
	ProfileMissingMsg    string `mapstructure:"profile_missing"`
	NoCandidatesMsg      string `mapstructure:"no_candidates"`
	MatchHeaderMsg       string `mapstructure:"match_header"`
	ResetDoneMsg         string `mapstructure:"reset_done"`
	ResetTimeoutMsg      string `mapstructure:"reset_timeout"`
	DeleteConfirmMsg     string `mapstructure:"delete_confirm"`
	DeleteDoneMsg        string `mapstructure:"delete_done"`
	DeleteCancelledMsg   string `mapstructure:"delete_cancelled"`
	BroadcastUsageMsg    string `mapstructure:"broadcast_usage"`
	BroadcastReportFmt   string `mapstructure:"broadcast_report"`
}

// TaskConfig describes one scheduled task entry.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// Validate checks the configuration against the struct validation tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
