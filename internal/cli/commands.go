package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/add2cal/internal/calendar"
	"github.com/pfrederiksen/add2cal/internal/event"
	"github.com/pfrederiksen/add2cal/internal/logger"
	"github.com/pfrederiksen/add2cal/internal/relay"
	"github.com/pfrederiksen/add2cal/internal/server"
	"github.com/pfrederiksen/add2cal/internal/session"
	"github.com/pfrederiksen/add2cal/internal/share"
)

var (
	flagFile      string
	flagSourceURL string

	flagShareURL   string
	flagShareText  string
	flagShareTitle string

	flagAndroid bool

	flagOutput       string
	flagCalendarName string
	flagSort         string

	flagListen string
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [url]",
		Short: "Extract the event details from an event page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			var evt *event.Event
			switch {
			case flagFile != "":
				evt, err = a.parseFile(flagFile, flagSourceURL)
			case len(args) == 1:
				evt, err = a.fetcher.FetchEvent(cmd.Context(), args[0])
			default:
				return fmt.Errorf("an event URL or --file is required")
			}
			if err != nil {
				return err
			}

			return WriteOutput(cmd.OutOrStdout(), a.result(evt), a.format, flagVerbose)
		},
	}

	cmd.Flags().StringVar(&flagFile, "file", "", "Parse a saved HTML page instead of fetching")
	cmd.Flags().StringVar(&flagSourceURL, "source-url", "", "Source URL to record for --file")

	return cmd
}

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Resolve shared content to an event and load it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			target := share.Resolve(share.Payload{URL: flagShareURL, Text: flagShareText, Title: flagShareTitle})
			if target.URL == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No event URL found in the shared content.")
				if target.Prefill != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Shared text: %s\n", target.Prefill)
				}
				return nil
			}
			if !target.Recognised() {
				logger.Warn("shared URL is not a TinkerHub event page, trying anyway", logger.Fields{"url": target.URL})
			}

			sess := session.New(a.fetcher)
			sess.Metrics = a.metrics
			evt, err := sess.Load(cmd.Context(), target.URL)
			if err != nil {
				return err
			}

			res := a.result(evt)
			res.EventCode = target.Code
			return WriteOutput(cmd.OutOrStdout(), res, a.format, flagVerbose)
		},
	}

	cmd.Flags().StringVar(&flagShareURL, "url", "", "Shared URL")
	cmd.Flags().StringVar(&flagShareText, "text", "", "Shared text (scanned for a URL)")
	cmd.Flags().StringVar(&flagShareTitle, "title", "", "Shared title")

	return cmd
}

func newLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <url>",
		Short: "Print the Google Calendar link for an event page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			evt, err := a.fetcher.FetchEvent(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var link string
			if flagAndroid {
				link, err = a.calendar.AndroidIntentURL(evt)
			} else {
				link, err = a.calendar.GoogleURL(evt)
			}
			if err != nil {
				return err
			}

			if a.format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"url": link})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), link)
			return err
		},
	}

	cmd.Flags().BoolVar(&flagAndroid, "android", false, "Print the Android intent link instead")

	return cmd
}

func newICSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics <url>...",
		Short: "Write an .ics calendar file for one or more event pages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			events := make([]*event.Event, 0, len(args))
			for _, u := range args {
				evt, err := a.fetcher.FetchEvent(cmd.Context(), u)
				if err != nil {
					return fmt.Errorf("%s: %w", u, err)
				}
				events = append(events, evt)
			}

			var out string
			if len(events) == 1 {
				out, err = a.calendar.GenerateICS(events[0])
				if err != nil {
					return err
				}
			} else {
				name := flagCalendarName
				if name == "" {
					name = a.cfg.CalendarName
				}
				sortEvents(events, SortOrder(flagSort))
				out = a.calendar.GenerateBulkICS(events, name)
				if out == "" {
					return calendar.ErrNoDates
				}
			}

			return writeICS(cmd.OutOrStdout(), flagOutput, out)
		},
	}

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().StringVar(&flagCalendarName, "name", "", "Calendar name for multiple events")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByDate), "Event order for multiple events: date or title")

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the page relay and event API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			if flagListen != "" {
				a.cfg.Listen = flagListen
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			rl := relay.New(a.cfg.SiteDomain, a.cfg.CacheMaxAge, a.cfg.FetchTimeout)
			rl.Metrics = a.metrics

			sess := session.New(a.fetcher)
			sess.Metrics = a.metrics

			deps := &server.Deps{
				Relay:    rl,
				Fetcher:  a.fetcher,
				Session:  sess,
				Calendar: a.calendar,
				Metrics:  a.metrics,
			}
			return server.Serve(ctx, a.cfg.Listen, deps.Router())
		},
	}

	cmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (overrides config)")

	return cmd
}

func (a *app) parseFile(path, sourceURL string) (*event.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer f.Close()
	return a.parser.Parse(f, sourceURL)
}

// result assembles the output for one event, with links when it has dates.
func (a *app) result(evt *event.Event) *OutputResult {
	res := &OutputResult{Event: evt}
	links, err := a.calendar.Links(evt)
	if err != nil {
		res.Warning = "Could not determine event dates"
		return res
	}
	res.GoogleURL = links.Google
	res.AndroidURL = links.Android
	return res
}

func writeICS(stdout io.Writer, path, body string) error {
	if path == "" {
		_, err := io.WriteString(stdout, body)
		return err
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info("calendar file written", logger.Fields{"path": path})
	return nil
}
