package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// SyncSettings are the mutable knobs of the playback sync pipeline. They are
// snapshotted into backups and overwritten on restore.
type SyncSettings struct {
	// ExcludeKeywords is a comma separated list (ASCII or full-width comma)
	// of path fragments that suppress syncing
	ExcludeKeywords string `json:"exclude_keywords"`

	// SuppressFirstEpisode skips syncing for episode 1 of a season, so a
	// quick first look at a show does not mark it as watching
	SuppressFirstEpisode bool `json:"suppress_first_episode"`

	// Private marks archive status updates as private
	Private bool `json:"private"`

	// HistoryDays is the retention window for check-in history records
	HistoryDays int `json:"history_days"`
}

// Config holds all application configuration
type Config struct {
	// Douban archive
	DoubanCookie string

	// TMDB metadata
	TMDBAPIKey string

	// Check-in
	CheckinCron string

	// Notifications (empty disables)
	NotifyURL string

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/gowatcharr.db
	SitesFile    string // $CONFIG_DIR/sites.yaml
	BackupFile   string // $CONFIG_DIR/backup.json

	// Logging
	LogLevel string
	LogFile  string // optional rotating log file

	Sync SyncSettings
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CHECKIN_CRON", "0 9 * * *")
	viper.SetDefault("HISTORY_DAYS", 30)
	viper.SetDefault("SUPPRESS_FIRST_EPISODE", false)
	viper.SetDefault("PRIVATE_SYNC", true)

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "gowatcharr")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		DoubanCookie: viper.GetString("DOUBAN_COOKIE"),
		TMDBAPIKey:   viper.GetString("TMDB_API_KEY"),
		CheckinCron:  viper.GetString("CHECKIN_CRON"),
		NotifyURL:    viper.GetString("NOTIFY_URL"),
		ServerPort:   viper.GetString("SERVER_PORT"),

		DatabaseFile: filepath.Join(configDir, "gowatcharr.db"),
		SitesFile:    filepath.Join(configDir, "sites.yaml"),
		BackupFile:   filepath.Join(configDir, "backup.json"),

		LogLevel: viper.GetString("LOG_LEVEL"),
		LogFile:  viper.GetString("LOG_FILE"),

		Sync: SyncSettings{
			ExcludeKeywords:      viper.GetString("EXCLUDE_KEYWORDS"),
			SuppressFirstEpisode: viper.GetBool("SUPPRESS_FIRST_EPISODE"),
			Private:              viper.GetBool("PRIVATE_SYNC"),
			HistoryDays:          viper.GetInt("HISTORY_DAYS"),
		},
	}

	// Validate required fields
	if config.DoubanCookie == "" {
		return nil, fmt.Errorf("DOUBAN_COOKIE is required")
	}
	if config.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	if config.Sync.HistoryDays <= 0 {
		config.Sync.HistoryDays = 30
	}

	return config, nil
}
