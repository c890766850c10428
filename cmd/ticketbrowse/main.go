// ticketbrowse is a terminal browser for the ticket listing. It drives
// the same query-state controller the web listing uses: the address bar
// at the top is the canonical query, and --query restores one.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dharmasatrya/ticketsearch/internal/browse"
	"github.com/dharmasatrya/ticketsearch/internal/client"
	"github.com/dharmasatrya/ticketsearch/internal/config"
	"github.com/dharmasatrya/ticketsearch/internal/history"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
	"github.com/dharmasatrya/ticketsearch/internal/ratelimit"
	"github.com/dharmasatrya/ticketsearch/internal/tui"
	"github.com/dharmasatrya/ticketsearch/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var apiURL string
	var query string
	var historyFile string
	var logOutput string

	flagSet := pflag.NewFlagSet("ticketbrowse", pflag.ContinueOnError)
	flagSet.StringVar(&apiURL, "api", cfg.Upstream.BaseURL, "base URL of the tickets API")
	flagSet.StringVar(&query, "query", "", "initial query string, e.g. 'type=bus&sortBy=price'")
	flagSet.StringVar(&historyFile, "history-file", "", "search history file (default: user config dir)")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	// The terminal belongs to the TUI, so logs go to a file or nowhere.
	log := zap.NewNop()
	if logOutput != "" {
		fileLogger, closeLog, err := logger.NewFile(cfg.Log.Level, "json", logOutput)
		if err != nil {
			return fmt.Errorf("open log output: %w", err)
		}
		defer closeLog()
		defer fileLogger.Sync()
		log = fileLogger
	}

	if historyFile == "" {
		historyFile, err = history.DefaultFilePath()
		if err != nil {
			return fmt.Errorf("locate history file: %w", err)
		}
	}

	rateLimiter := ratelimit.New(ratelimit.DefaultConfig(), cfg.Upstream.Limits())

	api, err := client.New(client.Config{
		BaseURL:     apiURL,
		Timeout:     cfg.Upstream.Timeout,
		RateLimiter: rateLimiter,
		Logger:      log.Named("client"),
	})
	if err != nil {
		return err
	}

	changes := tui.NewNotifier()
	session := browse.NewSession(browse.Config{
		API:          api,
		Location:     browse.NewMemoryLocation(querystate.ParseQuery(strings.TrimPrefix(query, "?"))),
		History:      history.NewFileStore(historyFile),
		FetchTimeout: cfg.Upstream.Timeout,
		OnChange:     changes.Notify,
		Logger:       log.Named("browse"),
	})
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session.Start(ctx)

	log.Info("Browsing tickets",
		zap.String("api", apiURL),
		zap.String("query", query),
		zap.String("history", historyFile),
	)

	program := tea.NewProgram(tui.NewModel(session, changes), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `ticketbrowse: browse bus, train, flight, launch and ferry tickets.

The line at the top shows the query the current view maps to. Pass it
back with --query to reopen the same view.

Usage:
  ticketbrowse [flags]

Examples:
  # Browse against a local mock API (go run ./cmd/mockapi)
  ticketbrowse

  # Cheapest buses first, 24 per page
  ticketbrowse --query 'type=bus&sortBy=price&sortOrder=asc&pageSize=24'

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
