package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. LISTMONK_LISTMONK_URL
const EnvPrefix = "LISTMONK"

// Load loads the configuration from file and environment. An explicit
// configPath must exist; otherwise a missing config file is not an error as
// long as the required keys come from the environment.
func Load(configPath string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".listmonkctl"))
		}

		// Check /etc
		v.AddConfigPath("/etc/listmonkctl/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv exports the variables of a .env file that are not already set
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default configuration values. Every key is registered so
// environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	// listmonk defaults
	v.SetDefault("listmonk.url", "http://localhost:9000")
	v.SetDefault("listmonk.username", "")
	v.SetDefault("listmonk.password", "")
	v.SetDefault("listmonk.timeout", "0s")

	// Output defaults
	v.SetDefault("output.format", "table")
	v.SetDefault("output.show_details", true)

	// Filter defaults
	v.SetDefault("filter.default", "")
	v.SetDefault("filter.presets", map[string]string{})

	// Safety defaults
	v.SetDefault("safety.dry_run", false)
	v.SetDefault("safety.confirm_delete", true)
	v.SetDefault("safety.delete_concurrency", 4)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Listmonk.URL) == "" {
		return fmt.Errorf("listmonk.url is required")
	}

	if cfg.Listmonk.Username == "" {
		return fmt.Errorf("listmonk.username is required")
	}

	if cfg.Listmonk.Password == "" || cfg.Listmonk.Password == "your-api-token-here" {
		return fmt.Errorf("listmonk.password must be set to a valid API token")
	}

	if cfg.Listmonk.Timeout < 0 {
		return fmt.Errorf("listmonk.timeout must not be negative")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	validOutputs := map[string]bool{
		"table": true,
		"json":  true,
		"yaml":  true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output.format: %s (must be 'table', 'json' or 'yaml')", cfg.Output.Format)
	}

	if cfg.Safety.DeleteConcurrency < 1 {
		return fmt.Errorf("safety.delete_concurrency must be at least 1")
	}

	return nil
}
