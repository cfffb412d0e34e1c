// config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/skarzhevskyy/nexus-repository-cleanup/internal/infrastructure/logger"
	"github.com/skarzhevskyy/nexus-repository-cleanup/pkg/constants"
)

const (
	RunModeOnce   = "once"
	RunModeServer = "server"
)

type Config struct {
	// Nexus connection
	NexusURL      string
	NexusUsername string
	NexusPassword string
	NexusToken    string
	NexusTimeout  time.Duration

	// Cleanup behavior
	RulesFile   string
	DryRun      bool
	RunMode     string
	Concurrency int

	// Reporting
	ReportRepositories  bool
	ReportGroups        bool
	RepositorySort      string
	GroupSort           string
	TopGroups           int
	ReportOutputFile    string
	ComponentOutputFile string

	// Scheduling and HTTP (server mode)
	CleanupSchedule string
	HTTPPort        string

	// Run history
	DBPath string

	// Notification
	TelegramBotToken string
	TelegramChatID   string

	// Logger config
	Logger logger.Config
}

func LoadConfig() (*Config, error) {
	// Set default config path
	viper.SetConfigFile(constants.ConfigPath)
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("NEXUS_TIMEOUT", "30s")
	viper.SetDefault("RUN_MODE", RunModeOnce)
	viper.SetDefault("CONCURRENCY", 1)
	viper.SetDefault("CLEANUP_SCHEDULE", "0 0 * * *")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("REPORT_REPOSITORIES", true)
	viper.SetDefault("REPORT_GROUPS", false)
	viper.SetDefault("REPO_SORT", "components")
	viper.SetDefault("GROUP_SORT", "components")
	viper.SetDefault("TOP_GROUPS", 10)
	viper.SetDefault("DB_PATH", constants.DefaultDBPath)

	// Logger defaults
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_DIR", constants.DefaultLogPath)
	viper.SetDefault("LOG_MAX_SIZE", 100)  // 100MB
	viper.SetDefault("LOG_MAX_BACKUPS", 5) // 5 files
	viper.SetDefault("LOG_MAX_AGE", 30)    // 30 days
	viper.SetDefault("LOG_COMPRESS", true)

	// Read config file; a missing file is fine, environment variables alone are enough
	if err := viper.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error reading config file: %v", err)
	}

	// Create config structure
	config := &Config{
		NexusURL:      viper.GetString("NEXUS_URL"),
		NexusUsername: viper.GetString("NEXUS_USERNAME"),
		NexusPassword: viper.GetString("NEXUS_PASSWORD"),
		NexusToken:    viper.GetString("NEXUS_TOKEN"),
		NexusTimeout:  viper.GetDuration("NEXUS_TIMEOUT"),

		RulesFile:   viper.GetString("RULES_FILE"),
		DryRun:      viper.GetBool("DRY_RUN"),
		RunMode:     viper.GetString("RUN_MODE"),
		Concurrency: viper.GetInt("CONCURRENCY"),

		ReportRepositories:  viper.GetBool("REPORT_REPOSITORIES"),
		ReportGroups:        viper.GetBool("REPORT_GROUPS"),
		RepositorySort:      viper.GetString("REPO_SORT"),
		GroupSort:           viper.GetString("GROUP_SORT"),
		TopGroups:           viper.GetInt("TOP_GROUPS"),
		ReportOutputFile:    viper.GetString("REPORT_OUTPUT_FILE"),
		ComponentOutputFile: viper.GetString("COMPONENT_OUTPUT_FILE"),

		CleanupSchedule: viper.GetString("CLEANUP_SCHEDULE"),
		HTTPPort:        viper.GetString("HTTP_PORT"),

		DBPath: viper.GetString("DB_PATH"),

		TelegramBotToken: viper.GetString("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   viper.GetString("TELEGRAM_CHAT_ID"),

		Logger: logger.Config{
			Level:      viper.GetString("LOG_LEVEL"),
			LogDir:     viper.GetString("LOG_DIR"),
			MaxSize:    viper.GetInt("LOG_MAX_SIZE"),
			MaxBackups: viper.GetInt("LOG_MAX_BACKUPS"),
			MaxAge:     viper.GetInt("LOG_MAX_AGE"),
			Compress:   viper.GetBool("LOG_COMPRESS"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.NexusURL == "" {
		return fmt.Errorf("NEXUS_URL is required")
	}
	if c.RulesFile == "" {
		return fmt.Errorf("RULES_FILE is required")
	}
	if c.RunMode != RunModeOnce && c.RunMode != RunModeServer {
		return fmt.Errorf("RUN_MODE must be %q or %q, got %q", RunModeOnce, RunModeServer, c.RunMode)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("CONCURRENCY must be at least 1")
	}
	return nil
}
