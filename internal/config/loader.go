package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads and validates configuration from:
// 1. Default values
// 2. The YAML file at configPath (optional)
// 3. BOT_* environment variables (e.g. BOT_TELEGRAM_TOKEN)
func LoadConfig(configPath string) (*Config, error) {
	setDefaults()

	cfg := &Config{
		Logger: LoggerConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Database: DatabaseConfig{
			Path: DefaultDBPath,
		},
		Media: MediaConfig{
			FetchTimeout: DefaultMediaFetchTimeout,
		},
		Messages: DefaultMessages,
	}

	if err := readConfigFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readConfigFile points viper at the config file and environment and reads
// them in. A missing config file is not an error; defaults and environment
// variables still apply.
func readConfigFile(configPath string) error {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// setDefaults registers default values for all optional configuration keys,
// which also makes them visible to environment variable overrides.
func setDefaults() {
	viper.SetDefault("logger.level", DefaultLogLevel)
	viper.SetDefault("logger.format", DefaultLogFormat)

	viper.SetDefault("telegram.token", "")
	viper.SetDefault("telegram.admin_user_ids", []int64{})
	viper.SetDefault("telegram.offline", false)

	viper.SetDefault("database.path", DefaultDBPath)

	viper.SetDefault("media.fetch_timeout", DefaultMediaFetchTimeout)

	viper.SetDefault("messages.welcome", DefaultMessages.Welcome)
	viper.SetDefault("messages.help", DefaultMessages.Help)
	viper.SetDefault("messages.support", DefaultMessages.Support)
	viper.SetDefault("messages.error_unauthorized", DefaultMessages.ErrorUnauthorizedMsg)
	viper.SetDefault("messages.error_general", DefaultMessages.ErrorGeneralMsg)
	viper.SetDefault("messages.no_session_hint", DefaultMessages.NoSessionHintMsg)
	viper.SetDefault("messages.active_session", DefaultMessages.ActiveSessionMsg)
	viper.SetDefault("messages.profile_incomplete", DefaultMessages.ProfileIncompleteMsg)
	viper.SetDefault("messages.profile_missing", DefaultMessages.ProfileMissingMsg)
	viper.SetDefault("messages.no_candidates", DefaultMessages.NoCandidatesMsg)
	viper.SetDefault("messages.match_header", DefaultMessages.MatchHeaderMsg)
	viper.SetDefault("messages.reset_done", DefaultMessages.ResetDoneMsg)
	viper.SetDefault("messages.reset_timeout", DefaultMessages.ResetTimeoutMsg)
	viper.SetDefault("messages.delete_confirm", DefaultMessages.DeleteConfirmMsg)
	viper.SetDefault("messages.delete_done", DefaultMessages.DeleteDoneMsg)
	viper.SetDefault("messages.delete_cancelled", DefaultMessages.DeleteCancelledMsg)
	viper.SetDefault("messages.broadcast_usage", DefaultMessages.BroadcastUsageMsg)
	viper.SetDefault("messages.broadcast_report", DefaultMessages.BroadcastReportFmt)
}
