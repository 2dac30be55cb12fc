package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/avicennajr/go-fdisms/internal/config"
	"github.com/avicennajr/go-fdisms/internal/dlr"
	"github.com/avicennajr/go-fdisms/internal/journal"
	"github.com/avicennajr/go-fdisms/internal/logger"
	"github.com/avicennajr/go-fdisms/internal/monitor"
	"github.com/avicennajr/go-fdisms/internal/sinks"
	"github.com/avicennajr/go-fdisms/pkg/fdisms"
)

// App wires the messaging client, the send journal and the event sinks
// from configuration. Every command shares one App per process.
type App struct {
	cfg     *config.Config
	client  *fdisms.Client
	journal journal.Store
	fanout  *sinks.Fanout
	log     logger.Logger
}

// New builds the shared runtime from config. Sinks are built lazily by
// the commands that forward events; see BuildSinks.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	env, err := fdisms.ParseEnvironment(cfg.APIEnvironment)
	if err != nil {
		return nil, err
	}

	client, err := fdisms.New(fdisms.Config{
		Credentials: fdisms.Credentials{APIKey: cfg.APIKey, APISecret: cfg.APISecret},
		Environment: env,
		BaseURL:     cfg.APIBaseURL,
		Timeout:     cfg.HTTPTimeout,
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}
	log.InfoObj("messaging client initialized", "client_config", map[string]any{
		"environment": string(env),
		"base_url":    client.BaseURL(),
		"timeout":     cfg.HTTPTimeout.String(),
	})

	store, err := journal.NewStore(cfg.JournalType, cfg.JournalPath, journal.Options{
		ReceiptTTL:      cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}
	log.InfoObj("journal initialized", "journal_config", map[string]any{
		"type":                     cfg.JournalType,
		"path":                     cfg.JournalPath,
		"receipt_ttl_seconds":      int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
	})

	return &App{
		cfg:     cfg,
		client:  client,
		journal: store,
		log:     log,
	}, nil
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Client returns the messaging API client.
func (a *App) Client() *fdisms.Client { return a.client }

// Journal returns the send journal.
func (a *App) Journal() journal.Store { return a.journal }

// BuildSinks loads the sink registry and constructs the fanout. An
// empty sinks file path, or a file with no enabled sinks, yields an
// empty fanout so receipt journaling keeps working without downstream
// targets.
func (a *App) BuildSinks(ctx context.Context) (*sinks.Fanout, error) {
	if a.fanout != nil {
		return a.fanout, nil
	}
	if a.cfg.SinksFile == "" {
		a.log.WarnObj("no sinks file configured; events will not be forwarded", "sinks_file", "")
		a.fanout = sinks.NewFanout(nil)
		return a.fanout, nil
	}

	reg, err := sinks.LoadRegistry(a.cfg.SinksFile)
	if errors.Is(err, fs.ErrNotExist) {
		a.log.WarnObj("sinks file not found; events will not be forwarded", "sinks_file", a.cfg.SinksFile)
		a.fanout = sinks.NewFanout(nil)
		return a.fanout, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}

	enabled := reg.Enabled()
	if len(enabled) == 0 {
		a.log.WarnObj("no sinks enabled; events will not be forwarded", "sinks_file", a.cfg.SinksFile)
		a.fanout = sinks.NewFanout(nil)
		return a.fanout, nil
	}

	built, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabled, a.log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}
	a.fanout = sinks.NewFanout(built)

	summaries := make([]map[string]string, 0, len(enabled))
	for _, sc := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   sc.ID,
			"type": sc.Type,
		})
	}
	a.log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(summaries),
		"sinks": summaries,
	})
	return a.fanout, nil
}

// RunWatch polls the account balance until ctx is cancelled, raising
// low-balance alerts through the configured sinks.
func (a *App) RunWatch(ctx context.Context) error {
	out, err := a.BuildSinks(ctx)
	if err != nil {
		return err
	}
	svc := monitor.NewService(a.client, out, a.cfg.BalanceThreshold, a.cfg.WatchInterval, a.log)
	return svc.Run(ctx)
}

// RunReceiptServer serves the delivery receipt listener until ctx is
// cancelled, forwarding receipts through the configured sinks.
func (a *App) RunReceiptServer(ctx context.Context) error {
	out, err := a.BuildSinks(ctx)
	if err != nil {
		return err
	}
	srv := dlr.New(a.cfg.DLRListenAddr, a.journal, out, a.log)
	a.log.InfoObj("receipt listener starting", "listen_addr", a.cfg.DLRListenAddr)
	return srv.Run(ctx)
}

// Close releases the journal and any built sinks, logging failures.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.fanout != nil {
		if err := a.fanout.Close(); err != nil {
			a.log.ErrorObj("sinks close failed", "error", err.Error())
		}
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.log.ErrorObj("journal close failed", "error", err.Error())
		}
	}
}
