// Command trendscout is a terminal client for a trend-analysis service.
//
// Usage:
//
//	trendscout                 Run the TUI
//	trendscout config init     Write a default config file
//	trendscout config show     Print the effective configuration
//	trendscout events          JSONL event log viewer
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/trendscout/internal/analysis"
	"github.com/abelbrown/trendscout/internal/api"
	"github.com/abelbrown/trendscout/internal/clipboard"
	"github.com/abelbrown/trendscout/internal/config"
	"github.com/abelbrown/trendscout/internal/history"
	"github.com/abelbrown/trendscout/internal/keyword"
	"github.com/abelbrown/trendscout/internal/logging"
	"github.com/abelbrown/trendscout/internal/notify"
	"github.com/abelbrown/trendscout/internal/otel"
	"github.com/abelbrown/trendscout/internal/result"
	"github.com/abelbrown/trendscout/internal/trends"
	"github.com/abelbrown/trendscout/internal/ui"
)

var (
	configPath string
	serverURL  string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:          "trendscout",
	Short:        "Browse trending keywords and get content ideas for them",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runTUI(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.Path(), "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Service base URL (overrides config and TRENDSCOUT_SERVER)")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(configCmd, eventsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, then applies env and flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if serverURL != "" {
		cfg.Server.BaseURL = serverURL
	}
	if debugMode {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

func eventLogPath(cfg *config.Config) string {
	return filepath.Join(cfg.Logging.Dir, "events.jsonl")
}

// openJournal opens the JSONL event log. Failures fall back to a journal
// that only feeds the debug overlay.
func openJournal(cfg *config.Config) (*otel.Logger, func()) {
	if !cfg.Logging.Events {
		return otel.NewNullLogger(), func() {}
	}
	f, err := os.OpenFile(eventLogPath(cfg), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logging.Warn("event log unavailable", "error", err)
		return otel.NewNullLogger(), func() {}
	}
	return otel.NewLogger(f), func() { f.Close() }
}

func runTUI(parent context.Context, cfg *config.Config) error {
	if err := logging.Init(cfg.Logging.Dir, cfg.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}
	defer logging.Close()

	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	journal, closeJournal := openJournal(cfg)
	journal.SetRingBuffer(ring)
	defer closeJournal()
	defer journal.Close()
	journal.Info(otel.KindStartup, otel.CompMain, "trendscout "+logging.Version)

	var notices []string
	store, err := history.Open()
	if err != nil {
		logging.Warn("session history disabled", "error", err)
		notices = append(notices, "Session history unavailable")
	} else {
		defer store.Close()
	}
	if !clipboard.Available() {
		notices = append(notices, "System clipboard unavailable, copying will fail")
	}
	for _, n := range notices {
		journal.Warn(otel.KindStartup, otel.CompMain, n)
	}

	renderer, err := result.NewGlamourRenderer(cfg.UI.Theme, 80)
	if err != nil {
		return err
	}

	policy := notify.Restart
	if cfg.Notifications.IndependentTimers {
		policy = notify.Independent
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	client := api.New(cfg.Server.BaseURL,
		api.WithTimeout(cfg.Server.Timeout),
		api.WithRateLimit(cfg.Server.RateLimit),
	)

	keywords := &keyword.Coordinator{}
	center := notify.New(
		notify.WithDelay(cfg.Notifications.DismissAfter),
		notify.WithPolicy(policy),
		notify.WithJournal(journal),
	)
	presenter := result.NewPresenter(renderer, cfg.UI.ResultLabel)
	loader := trends.NewLoader(client, center, journal)
	ctrl := analysis.NewController(client, keywords, center, presenter, journal)
	if store != nil {
		ctrl.SetRecorder(store)
	}
	exporter := clipboard.NewExporter(presenter, nil, center, cfg.Clipboard.ConfirmAfter, journal)

	app := ui.NewApp(ui.AppConfig{
		Ctx:            ctx,
		ServerURL:      client.BaseURL(),
		Keywords:       keywords,
		Trends:         loader,
		Analysis:       ctrl,
		Notices:        center,
		Results:        presenter,
		Renderer:       renderer,
		Clipboard:      exporter,
		History:        store,
		Ring:           ring,
		Journal:        journal,
		Categories:     cfg.UI.Categories,
		DefaultCount:   cfg.UI.DefaultCount,
		StartupNotices: notices,
	})

	program := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	logging.Info("starting UI", "server", client.BaseURL(), "policy", policy.String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Quitting the UI abandons in-flight requests.
		defer cancel()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sig)

		select {
		case s := <-sig:
			logging.Info("signal received, quitting", "signal", s.String())
			program.Quit()
		case <-gctx.Done():
		}
		return nil
	})

	err = g.Wait()
	if err != nil {
		logging.Error("program exited with error", "error", err)
		journal.Error(otel.KindError, otel.CompMain, err)
	}
	journal.Info(otel.KindShutdown, otel.CompMain, "")
	return err
}
