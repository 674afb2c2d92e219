package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cinepedia/cinepedia/internal/adapter"
	"github.com/cinepedia/cinepedia/internal/catalog"
	"github.com/cinepedia/cinepedia/internal/notice"
	"github.com/cinepedia/cinepedia/internal/omdb"
	"github.com/cinepedia/cinepedia/internal/profile"
	"github.com/cinepedia/cinepedia/internal/settings"
	"github.com/cinepedia/cinepedia/internal/store"
	"github.com/cinepedia/cinepedia/internal/tui"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/term"
)

// app holds the wired services shared by every command
type app struct {
	cfg    *adapter.Config
	logger *slog.Logger
	logs   io.Closer

	store    *store.LocalStore
	notices  *notice.Center
	catalog  *catalog.Catalog
	commands *catalog.Commands
	queries  *catalog.Queries
	init     *catalog.Initializer
	profile  *profile.Service
	settings *settings.Service
	launcher *adapter.Launcher

	metrics *http.Server
}

func newApp(configFile, metricsAddr string) (*app, error) {
	cfg, err := adapter.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}

	logger, logs, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
		logs = io.NopCloser(nil)
	}
	slog.SetDefault(logger)
	logger.Info("starting cinepedia", "version", Version)

	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		logs.Close()
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	client, err := omdb.NewClient(cfg.API.BaseURL, cfg.API.Key, logger,
		omdb.WithTimeout(cfg.API.Timeout),
		omdb.WithRetry(cfg.API.Retries, cfg.API.Backoff),
	)
	if err != nil {
		st.Close()
		logs.Close()
		return nil, fmt.Errorf("failed to create omdb client: %w", err)
	}

	notices := notice.NewCenter(cfg.Notices.TTL, logger)
	indicator := catalog.NewIndicator(cfg.Sync.Delay, nil, logger)
	cat := catalog.New(st, indicator, logger)
	prof := profile.NewService(st, notices, logger)
	links := catalog.LinkPolicy{
		TrailerSearchURL:  cfg.Catalog.TrailerSearchURL,
		DownloadURL:       cfg.Catalog.DownloadURL,
		DownloadMinRating: cfg.Catalog.DownloadMinRating,
	}
	cmds := catalog.NewCommands(client, cat, prof, notices, links, cfg.Catalog.SearchLimit, logger)

	a := &app{
		cfg:      cfg,
		logger:   logger,
		logs:     logs,
		store:    st,
		notices:  notices,
		catalog:  cat,
		commands: cmds,
		queries:  catalog.NewQueries(cat),
		init:     catalog.NewInitializer(cat, cmds, cfg.Catalog.SeedIDs, logger),
		profile:  prof,
		settings: settings.NewService(st, cfg.UI.Theme, notices, logger),
		launcher: adapter.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger),
	}

	if cfg.Metrics.Addr != "" {
		a.serveMetrics(cfg.Metrics.Addr)
	}
	return a, nil
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	a.metrics = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("serving metrics", "addr", addr)
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
}

// Close releases every resource in reverse order of acquisition
func (a *app) Close() error {
	a.catalog.Indicator().Stop()

	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.metrics.Shutdown(ctx); err != nil {
			a.logger.Warn("metrics shutdown", "error", err)
		}
	}

	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	a.logger.Info("shutting down")
	errs = append(errs, a.logs.Close())
	return errors.Join(errs...)
}

// ready populates the catalog the way the gallery does at startup
func (a *app) ready(ctx context.Context) error {
	res, err := a.init.Run(ctx)
	if err != nil {
		return err
	}
	a.logger.Debug("catalog ready", "fromStore", res.FromStore, "count", res.Count)
	return nil
}

// runInteractive starts the TUI on a terminal, otherwise prints the catalog
func (a *app) runInteractive(ctx context.Context, out io.Writer) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := a.ready(ctx); err != nil {
			return err
		}
		a.printRecords(out, a.catalog.Records())
		return nil
	}

	model := tui.NewModel(tui.Services{
		Catalog:     a.catalog,
		Commands:    a.commands,
		Queries:     a.queries,
		Initializer: a.init,
		Profile:     a.profile,
		Settings:    a.settings,
		Notices:     a.notices,
		Launcher:    a.launcher,
		SeedIDs:     a.cfg.Catalog.SeedIDs,
		Credential:  a.cfg.Sync.Credential,
	}, a.logger)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	a.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
