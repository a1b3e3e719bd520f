package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studiowebux/countrysearch/internal/analytics"
	"github.com/studiowebux/countrysearch/internal/cli"
	"github.com/studiowebux/countrysearch/internal/config"
	"github.com/studiowebux/countrysearch/internal/keybinds"
	"github.com/studiowebux/countrysearch/internal/logging"
	"github.com/studiowebux/countrysearch/internal/lookup"
	"github.com/studiowebux/countrysearch/internal/restcountries"
	"github.com/studiowebux/countrysearch/internal/tui"
	"github.com/studiowebux/countrysearch/internal/version"
	"github.com/studiowebux/countrysearch/internal/web"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, cli.ErrLookupFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "countrysearch",
	Short: "Search countries by name",
	Long: `countrysearch looks countries up by name while you type.

Run without arguments to start the interactive search, or use a subcommand
for one-shot lookups and the browser surface.

Examples:
  countrysearch                          # Start interactive search
  countrysearch lookup peru              # One lookup, printed to the terminal
  countrysearch lookup nig -o json       # Machine readable result
  countrysearch serve --addr :8080       # Browser surface on http://localhost:8080
  countrysearch mock --port 8089         # Offline fixture country API`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Look a country up once and print the result",
	Long: `Look a country up once and print what the search widget would show.

Exits with status 1 when the lookup fails.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLookup(cmd.Context(), args[0])
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search widget over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recorded lookup statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion(cmd)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigShow(cmd)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(cmd)
	},
}

// Global flags
var (
	flagAPIURL   string
	flagLogLevel string
)

// Flags for lookup
var (
	flagOutput  string
	flagQuery   string
	flagSave    string
	flagPick    bool
	flagNoColor bool
	flagVerbose bool
)

// Flags for serve
var flagAddr string

// Flags for version
var flagCheck bool

// Flags for config init
var flagForce bool

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Country API base URL (overrides settings)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug/info/warn/error)")

	lookupCmd.Flags().StringVarP(&flagOutput, "output", "o", cli.FormatText, "Output format (text/markdown/json/yaml/html)")
	lookupCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "JMESPath expression applied to the matched countries")
	lookupCmd.Flags().StringVarP(&flagSave, "save", "s", "", "Save output to file")
	lookupCmd.Flags().BoolVar(&flagPick, "pick", false, "Choose one country when several match")
	lookupCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	lookupCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log request details to stderr")

	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides settings)")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "Check for a newer release")

	configInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing settings file")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(lookupCmd, serveCmd, mockCmd, statsCmd, versionCmd, configCmd)
}

// loadSettings initializes the config directory and applies the global flags
func loadSettings() (config.Settings, error) {
	if err := config.Initialize(); err != nil {
		return config.Settings{}, fmt.Errorf("failed to initialize config: %w", err)
	}
	settings, err := config.Load()
	if err != nil {
		return settings, err
	}
	if flagAPIURL != "" {
		settings.APIURL = flagAPIURL
	}
	if flagLogLevel != "" {
		settings.LogLevel = flagLogLevel
	}
	return settings, nil
}

func newClient(settings config.Settings) *restcountries.Client {
	return restcountries.NewClient(settings.APIURL,
		restcountries.WithTimeout(settings.RequestTimeout),
		restcountries.WithUserAgent("countrysearch/"+version.Version))
}

// openAnalytics opens the lookup database when recording is enabled
func openAnalytics(settings config.Settings, logger *zap.Logger) *analytics.Manager {
	if !settings.Analytics {
		return nil
	}
	manager, err := analytics.NewManager(config.DatabasePath)
	if err != nil {
		logger.Warn("analytics disabled", zap.String("path", config.DatabasePath), zap.Error(err))
		return nil
	}
	return manager
}

// runTUI starts the interactive search. Logs go to a file since the
// terminal belongs to the UI.
func runTUI() error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	logger, err := logging.New(settings.LogLevel, config.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	keys, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		logger.Warn("ignoring keybinds file", zap.Error(err))
	}

	return tui.Run(tui.Options{
		Settings:    settings,
		Searcher:    newClient(settings),
		Analytics:   openAnalytics(settings, logger),
		Checker:     version.NewChecker(""),
		Keybinds:    keys,
		KeybindsErr: err,
		Logger:      logger,
	})
}

func runLookup(ctx context.Context, name string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	level := "error"
	if flagVerbose {
		level = "debug"
	}
	logger, err := logging.Console(level)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	observers := []lookup.Observer{}
	if manager := openAnalytics(settings, logger); manager != nil {
		defer manager.Close()
		observers = append(observers, analytics.NewRecorder(manager, "cli", "", logger))
	}

	return cli.Run(ctx, cli.RunOptions{
		Name:         name,
		OutputFormat: flagOutput,
		Query:        flagQuery,
		SavePath:     flagSave,
		Pick:         flagPick,
		NoColor:      flagNoColor || os.Getenv("NO_COLOR") != "",
		Settings:     settings,
		Logger:       logger,
		Observers:    observers,
	})
}

func runServe() error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	logger, err := logging.Console(settings.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	manager := openAnalytics(settings, logger)
	if manager != nil {
		defer manager.Close()
	}

	addr := settings.Listen
	if flagAddr != "" {
		addr = flagAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.New(web.Options{
		Settings:  settings,
		Searcher:  newClient(settings),
		Analytics: manager,
		Logger:    logger,
	})

	logger.Info("serving country search",
		zap.String("addr", addr),
		zap.String("api", settings.APIURL),
		zap.Bool("analytics", manager != nil))

	return srv.Run(ctx, addr)
}
