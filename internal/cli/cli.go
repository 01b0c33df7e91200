package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/add2cal/internal/calendar"
	"github.com/pfrederiksen/add2cal/internal/config"
	"github.com/pfrederiksen/add2cal/internal/logger"
	"github.com/pfrederiksen/add2cal/internal/metrics"
	"github.com/pfrederiksen/add2cal/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig   string
	flagFormat   string
	flagVerbose  bool
	flagRelayURL string
)

// app holds the components built from the loaded configuration
type app struct {
	cfg      *config.Config
	format   OutputFormat
	parser   *scraper.Parser
	fetcher  *scraper.Fetcher
	calendar *calendar.Calendar
	metrics  *metrics.Metrics
}

func newApp(cfg *config.Config, format OutputFormat) *app {
	parser := &scraper.Parser{
		Resolver: cfg.Resolver(),
		Marker:   cfg.BoundaryMarker,
		Now:      time.Now,
	}
	return &app{
		cfg:      cfg,
		format:   format,
		parser:   parser,
		fetcher:  scraper.NewFetcher(cfg.RelayURL, parser, cfg.FetchTimeout),
		calendar: calendar.New(cfg.Timezone, cfg.Zone()),
		metrics:  metrics.New(),
	}
}

// loadApp reads the configuration, applies flag overrides and sets up logging.
func loadApp() (*app, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg := config.DefaultConfig()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	if flagRelayURL != "" {
		cfg.RelayURL = flagRelayURL
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	return newApp(cfg, format), nil
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add2cal",
		Short: "Add TinkerHub events to your calendar",
		Long: `Reads a TinkerHub event page and turns it into a Google Calendar link
or an .ics file. Page times are converted to Indian Standard Time.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a YAML config file (created with defaults if missing)")
	pf.StringVar(&flagFormat, "format", "text", "Output format: text or json")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
	pf.StringVar(&flagRelayURL, "relay-url", "", "Fetch pages through this page relay (e.g. https://host/api/proxy)")

	cmd.AddCommand(
		newParseCmd(),
		newShareCmd(),
		newLinkCmd(),
		newICSCmd(),
		newServeCmd(),
	)

	return cmd
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
