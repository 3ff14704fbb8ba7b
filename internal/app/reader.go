package app

import (
	"context"
	"fmt"
	"time"

	"github.com/newsstand-hq/newsstand-reader/internal/bookmarks"
	"github.com/newsstand-hq/newsstand-reader/internal/catalog"
	"github.com/newsstand-hq/newsstand-reader/internal/config"
	"github.com/newsstand-hq/newsstand-reader/internal/logger"
	"github.com/newsstand-hq/newsstand-reader/internal/prefs"
	"github.com/newsstand-hq/newsstand-reader/internal/rest"
	"github.com/newsstand-hq/newsstand-reader/internal/storage"
	"github.com/newsstand-hq/newsstand-reader/internal/theme"
	"github.com/newsstand-hq/newsstand-reader/pkg/httpclient"
	"github.com/newsstand-hq/newsstand-reader/pkg/sinks"
	"github.com/newsstand-hq/newsstand-reader/pkg/sources"
)

const shutdownGrace = 10 * time.Second

// Reader is the service runtime. It owns the storage backend and the HTTP
// server and wires the repositories, theme manager, article source, and
// change-event sinks together.
type Reader struct {
	cfg    *config.Config
	log    logger.Logger
	store  storage.Store
	server *rest.Server
}

// NewReader builds the reader runtime from config.
func NewReader(ctx context.Context, cfg *config.Config, log logger.Logger) (*Reader, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type": cfg.StorageType,
		"path": cfg.StoragePath,
	})

	source, err := sources.New(sources.Config{
		Type:           cfg.SourceType,
		FixtureFile:    cfg.FixtureFile,
		NewsAPIBaseURL: cfg.NewsAPIURL,
		NewsAPIKey:     cfg.NewsAPIKey,
		Timeout:        cfg.HTTPTimeout,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init article source: %w", err)
	}
	log.InfoObj("article source initialized", "source_type", source.ID())

	cat := catalog.Builtin()
	if cfg.CategoriesFile != "" {
		cat, err = catalog.LoadFile(cfg.CategoriesFile)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("load categories: %w", err)
		}
	}

	var snaps *bookmarks.Snapshotter
	if cfg.SnapshotsEnabled {
		snaps = bookmarks.NewSnapshotter(httpclient.NewRestyClient(cfg.SnapshotTimeout), store)
	}

	bookmarkRepo := bookmarks.NewRepository(store, snaps, log)
	prefsRepo := prefs.NewRepository(store, log)
	themeManager := theme.NewManager(ctx, store, log)

	fanout, err := buildSinks(ctx, cfg, log)
	if err != nil {
		store.Close()
		return nil, err
	}

	server := rest.NewServer(rest.Deps{
		Source:    source,
		Catalog:   cat,
		Bookmarks: bookmarkRepo,
		Snapshots: snaps,
		Prefs:     prefsRepo,
		Theme:     themeManager,
		Events:    fanout,
		Log:       log,
	})

	return &Reader{
		cfg:    cfg,
		log:    log,
		store:  store,
		server: server,
	}, nil
}

// buildSinks loads and instantiates the configured change-event sinks.
// No sinks file means change events stay local.
func buildSinks(ctx context.Context, cfg *config.Config, log logger.Logger) (*sinks.Fanout, error) {
	if cfg.SinksFile == "" {
		return sinks.NewFanout(nil), nil
	}

	sinkReg, err := sinks.LoadRegistry(cfg.SinksFile)
	if err != nil {
		return nil, fmt.Errorf("load sinks registry: %w", err)
	}

	enabled := sinkReg.Enabled()
	built, err := sinks.BuildAll(ctx, sinks.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, sinkCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   sinkCfg.ID,
			"type": sinkCfg.Type,
		})
	}
	log.InfoObj("sinks registry loaded", "sinks_meta", map[string]any{
		"count": len(summaries),
		"sinks": summaries,
	})

	return sinks.NewFanout(built), nil
}

// Run serves HTTP until the context is cancelled, then drains and closes
// the storage backend.
func (r *Reader) Run(ctx context.Context) error {
	if r == nil || r.server == nil {
		return fmt.Errorf("reader is not initialized")
	}
	defer r.closeStore()

	errCh := make(chan error, 1)
	go func() {
		errCh <- r.server.Start(r.cfg.ListenAddr)
	}()

	r.log.InfoObj("reader serving", "listen_addr", r.cfg.ListenAddr)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := r.server.Shutdown(shutdownCtx); err != nil {
		r.log.ErrorObj("server shutdown failed", "error", err)
	}
	r.log.InfoObj("reader stopped", "reason", ctx.Err())
	return nil
}

// closeStore safely closes the storage backend, logging any errors encountered.
func (r *Reader) closeStore() {
	if r == nil || r.store == nil {
		return
	}
	if err := r.store.Close(); err != nil {
		r.log.ErrorObj("storage close failed", "error", err)
	}
}
