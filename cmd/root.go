// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"streamit/internal/config"
	"streamit/internal/location"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagConfig    string
	flagProvider  string
	flagLauncher  string
	flagStart     string
	flagNoHistory bool
	flagJSON      bool
	flagDebug     bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var (
	logger    = slog.Default()
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "streamit [query]",
	Short: "Browse a movie and series catalog and resolve embed players",
	Long: `streamit searches a public title catalog, shows title details and
resolves an embeddable player page for a movie or a series episode from a
table of third-party providers.

Without a subcommand it starts the interactive browser. A query argument
starts it on the search results for that query.`,
	Args:               cobra.ArbitraryArgs,
	PersistentPreRunE:  loadConfig,
	PersistentPostRunE: closeLog,
	RunE:               browseRun,
	SilenceUsage:       true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: $XDG_CONFIG_HOME/streamit/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&flagProvider, "provider", "p", "", "Preferred embed provider id (see `streamit providers`)")
	rootCmd.PersistentFlags().StringVar(&flagLauncher, "launcher", "", "How to open embeds: browser | <command>")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not record watch history")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging")
	rootCmd.Flags().StringVar(&flagStart, "start", "", "Initial location, e.g. \"id=tt1375666&view=player\"")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(titleCmd)
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagLauncher != "" {
		cfg.Launcher = flagLauncher
	}
	if flagNoHistory {
		cfg.History = false
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The TUI owns the terminal, so logs only go to stderr for plain
	// commands run with --debug.
	toStderr := cfg.Debug && cmd.HasParent()
	logger, logCloser, err = config.NewLogger(cfg.Log, cfg.Debug, toStderr)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	slog.SetDefault(logger)
	logger.Debug("config loaded", "command", cmd.Name(), "provider", cfg.Provider, "history", cfg.History)

	return nil
}

func closeLog(cmd *cobra.Command, args []string) error {
	if logCloser != nil {
		return logCloser.Close()
	}
	return nil
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// startLocation builds the initial location from --start or a query
// argument.
func startLocation(args []string) (string, error) {
	query := strings.TrimSpace(strings.Join(args, " "))
	switch {
	case flagStart != "" && query != "":
		return "", fmt.Errorf("use either a query or --start, not both")
	case flagStart != "":
		return flagStart, nil
	case query != "":
		return location.Encode(location.Search(query)).Encode(), nil
	default:
		return "", nil
	}
}
