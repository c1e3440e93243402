package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/listmonkctl/config"
	"github.com/s0up4200/listmonkctl/filter"
	"github.com/s0up4200/listmonkctl/format"
	"github.com/s0up4200/listmonkctl/listmonk"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *listmonk.Client
	filters *filter.Manager

	// Command flags
	dryRun       bool
	outputFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "listmonkctl",
	Short: "Manage listmonk lists and subscribers from the command line",
	Long: `listmonkctl is a CLI tool for inspecting and maintaining a listmonk
instance: browse mailing lists, search and filter subscribers, add new
subscribers and remove old ones.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "d", false, "perform a dry run without making changes")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json or yaml")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(listsCmd)
	rootCmd.AddCommand(subscribersCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads the configuration and prepares the listmonk client.
// Commands that talk to the API log in through connect.
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	// Command line overrides
	if cmd.Flags().Changed("dry-run") {
		cfg.Safety.DryRun = dryRun
	}
	if outputFormat != "" {
		switch outputFormat {
		case format.Table, format.JSON, format.YAML:
			cfg.Output.Format = outputFormat
		default:
			return fmt.Errorf("invalid output format: %s (must be table, json or yaml)", outputFormat)
		}
	}

	filters = filter.NewManager(filter.WithDefault(cfg.Filter.Default))
	if err := filters.RegisterFilters(cfg.Filter.Presets); err != nil {
		return fmt.Errorf("invalid filter preset: %w", err)
	}

	opts := []listmonk.Option{listmonk.WithUserAgent("listmonkctl/" + version)}
	if cfg.Listmonk.Timeout > 0 {
		opts = append(opts, listmonk.WithTimeout(cfg.Listmonk.Timeout))
	}

	client = listmonk.NewClient(logger, opts...)
	if err := client.SetBaseURL(cfg.Listmonk.URL); err != nil {
		return fmt.Errorf("failed to create listmonk client: %w", err)
	}

	return nil
}

// connect logs in with the configured credentials
func connect(ctx context.Context) error {
	ok, err := client.Login(ctx, cfg.Listmonk.Username, cfg.Listmonk.Password)
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	if !ok {
		return fmt.Errorf("failed to log in to listmonk at %s: check the URL and credentials", client.BaseURL())
	}
	return nil
}

// skipInit replaces initializeApp for commands that need no configuration
func skipInit(cmd *cobra.Command, args []string) error {
	logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
