package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the collector configuration
type Config struct {
	// Scan settings
	Workers        int      `mapstructure:"workers"`         // number of inspection goroutines, 1 = sequential
	HeaderSize     int      `mapstructure:"header_size"`     // bytes read from each file for signature matching
	Exclude        []string `mapstructure:"exclude"`         // glob patterns of paths to skip (empty = walk everything)
	SignaturesPath string   `mapstructure:"signatures_path"` // YAML file or directory with extra signatures

	// Output settings
	OutputDir    string `mapstructure:"output_dir"`    // recovery target directory
	ReportFile   string `mapstructure:"report_file"`   // scan report path
	ReportFormat string `mapstructure:"report_format"` // json, txt
	TimelineFile string `mapstructure:"timeline_file"` // timeline export path
	TableLimit   int    `mapstructure:"table_limit"`   // rows shown in the console results table

	// Artifact settings
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
}

// ArtifactsConfig holds host artifact collection settings
type ArtifactsConfig struct {
	OutputFile         string `mapstructure:"output_file"`          // artifacts report path
	RecentDays         int    `mapstructure:"recent_days"`          // cutoff for recently modified files
	RecentRoot         string `mapstructure:"recent_root"`          // directory searched for recent files (default: home)
	BrowserHistoryPath string `mapstructure:"browser_history_path"` // Chrome History database
	HistoryLimit       int    `mapstructure:"history_limit"`        // maximum history rows
}

// LoadConfig loads configuration from defaults, an optional config file and
// environment variables (SLEUTH_ prefix).
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("workers", 1)
	v.SetDefault("header_size", 32)
	v.SetDefault("exclude", []string{})
	v.SetDefault("signatures_path", "")
	v.SetDefault("output_dir", filepath.Join("output", "recovered"))
	v.SetDefault("report_file", "scan_report.json")
	v.SetDefault("report_format", "json")
	v.SetDefault("timeline_file", "timeline.json")
	v.SetDefault("table_limit", 20)

	// Artifact defaults
	v.SetDefault("artifacts.output_file", "artifacts_report.json")
	v.SetDefault("artifacts.recent_days", 3)
	v.SetDefault("artifacts.recent_root", "")
	v.SetDefault("artifacts.browser_history_path", DefaultChromeHistoryPath())
	v.SetDefault("artifacts.history_limit", 50)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	// Read environment variables
	v.SetEnvPrefix("SLEUTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetWorkers returns the effective worker count
func (c *Config) GetWorkers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}

// DefaultChromeHistoryPath returns the default Chrome profile history database
// of the current user (Windows layout).
func DefaultChromeHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "AppData", "Local", "Google", "Chrome", "User Data", "Default", "History")
}
