package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/countrysearch/internal/analytics"
	"github.com/studiowebux/countrysearch/internal/config"
	"github.com/studiowebux/countrysearch/internal/logging"
	"github.com/studiowebux/countrysearch/internal/mock"
	"github.com/studiowebux/countrysearch/internal/version"
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run an offline country API backed by fixtures",
	Long: `Run a local country API answering /name/{name} from fixture data.

Point the other commands at it with --api-url http://localhost:8089.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMock(cmd)
	},
}

// Flags for mock
var (
	mockConfigFile string
	mockHost       string
	mockPort       int
	mockFixtures   string
	mockDelay      int
	mockFailWith   int
)

// Flags for stats
var (
	statsRecent int
	statsClear  bool
	statsMatch  string
)

func init() {
	mockCmd.Flags().StringVarP(&mockConfigFile, "config", "c", "", "Mock config file (yaml/json)")
	mockCmd.Flags().StringVar(&mockHost, "host", "", "Listen host (default localhost)")
	mockCmd.Flags().IntVarP(&mockPort, "port", "p", 0, "Listen port (default 8089)")
	mockCmd.Flags().StringVar(&mockFixtures, "fixtures", "", "Country fixture file (JSON array)")
	mockCmd.Flags().IntVar(&mockDelay, "delay", 0, "Response delay in milliseconds")
	mockCmd.Flags().IntVar(&mockFailWith, "fail-with", 0, "Answer every request with this status")

	statsCmd.Flags().IntVar(&statsRecent, "recent", 0, "Also list the N most recent lookups")
	statsCmd.Flags().BoolVar(&statsClear, "clear", false, "Delete every recorded lookup")
	statsCmd.Flags().StringVarP(&statsMatch, "match", "m", "", "Only show queries fuzzy-matching this pattern")
}

func runMock(cmd *cobra.Command) error {
	cfg := &mock.Config{Logging: true}
	if mockConfigFile != "" {
		loaded, err := mock.LoadConfig(mockConfigFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if mockHost != "" {
		cfg.Host = mockHost
	}
	if mockPort != 0 {
		cfg.Port = mockPort
	}
	if mockFixtures != "" {
		cfg.Fixtures = mockFixtures
	}
	if mockDelay != 0 {
		cfg.Delay = mockDelay
	}
	if mockFailWith != 0 {
		cfg.FailWith = mockFailWith
	}

	logger, err := logging.Console("info")
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	server, err := mock.NewServer(cfg, logger)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, mockBanner(server))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	printed := 0
	for {
		select {
		case <-server.NotifyChannel():
			logs := server.GetLogs()
			for _, l := range logs[min(printed, len(logs)):] {
				fmt.Fprintf(out, "%s %s %s -> %d (%d matches, %s)\n",
					l.Timestamp.Format(time.TimeOnly), l.Method, l.Path, l.Status, l.Matches, l.Duration.Round(time.Microsecond))
			}
			printed = len(logs)
		case <-sig:
			fmt.Fprintln(out, "Stopping mock server")
			return server.Stop()
		}
	}
}

// mockBanner announces where the mock API listens
func mockBanner(server *mock.Server) string {
	return fmt.Sprintf("Mock country API on %s (Ctrl+C to stop)", server.GetAddress())
}

func runStats(cmd *cobra.Command) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	manager, err := analytics.NewManager(config.DatabasePath)
	if err != nil {
		return err
	}
	defer manager.Close()

	out := cmd.OutOrStdout()
	if statsClear {
		if err := manager.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Statistics cleared")
		return nil
	}

	stats, err := manager.GetStatsPerQuery()
	if err != nil {
		return err
	}
	stats = analytics.MatchQueries(stats, statsMatch)
	if len(stats) == 0 && statsMatch != "" {
		fmt.Fprintf(out, "No recorded query matches %q\n", statsMatch)
		return nil
	}
	if len(stats) == 0 {
		fmt.Fprintln(out, "No lookups recorded yet (enable with analytics: true in "+config.SettingsFile+")")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("QUERY", "CALLS", "FAILED", "AVG MS", "MIN MS", "MAX MS", "LAST")
	for _, s := range stats {
		t.Row(
			s.Query,
			strconv.Itoa(s.TotalCalls),
			strconv.Itoa(s.FailedCount),
			fmt.Sprintf("%.0f", s.AvgDurationMs),
			strconv.FormatInt(s.MinDurationMs, 10),
			strconv.FormatInt(s.MaxDurationMs, 10),
			s.LastCalled.Local().Format("2006-01-02 15:04:05"),
		)
	}
	fmt.Fprintln(out, t.Render())

	if statsRecent > 0 {
		entries, err := manager.LoadRecent(statsRecent)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %-4s %-10s %-20s %3d  %dms\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Surface, e.State, e.Query, e.Matches, e.DurationMs)
		}
	}
	return nil
}

func runVersion(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "countrysearch %s\n", version.Version)
	if !flagCheck {
		return nil
	}

	update, err := version.NewChecker("").CheckForUpdate(cmd.Context(), version.Version)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if update.Available {
		fmt.Fprintf(out, "Update available: %s (%s)\n", update.Latest, update.URL)
	} else {
		fmt.Fprintln(out, "Up to date")
	}
	return nil
}

func runConfigShow(cmd *cobra.Command) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", config.SettingsFile)
	_, err = out.Write(data)
	return err
}

func runConfigInit(cmd *cobra.Command) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	if _, err := os.Stat(config.SettingsFile); err == nil && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.SettingsFile)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.Default().Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", config.SettingsFile)
	return nil
}
