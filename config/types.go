package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Listmonk ListmonkConfig `mapstructure:"listmonk"`
	Output   OutputConfig   `mapstructure:"output"`
	Filter   FilterConfig   `mapstructure:"filter"`
	Safety   SafetyConfig   `mapstructure:"safety"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ListmonkConfig holds listmonk API connection details
type ListmonkConfig struct {
	URL      string        `mapstructure:"url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format      string `mapstructure:"format"`
	ShowDetails bool   `mapstructure:"show_details"`
}

// FilterConfig contains filter definitions
type FilterConfig struct {
	Default string            `mapstructure:"default"`
	Presets map[string]string `mapstructure:"presets"`
}

// SafetyConfig contains safety-related settings
type SafetyConfig struct {
	DryRun            bool `mapstructure:"dry_run"`
	ConfirmDelete     bool `mapstructure:"confirm_delete"`
	DeleteConcurrency int  `mapstructure:"delete_concurrency"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
