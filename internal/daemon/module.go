// Package daemon composes the viewer daemon: store, importer, search index
// and HTTP API wired together through an fx lifecycle.
package daemon

import (
	"context"

	"github.com/maniya81/whatsapp-export-chat-viewer/internal/api"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/appdir"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/bus"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/config"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/importer"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/lock"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/logging"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/media"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/search"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/status"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds overrides passed from the command line.
type Params struct {
	HTTPAddr string // optional override of config http_addr
}

// Module returns the fx module for the daemon, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideMachine,
			provideLock,
			provideStore,
			provideArena,
			provideImporter,
			provideIndex,
			provideServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig() (*config.Config, error) {
	if err := appdir.EnsureDirs(); err != nil {
		return nil, err
	}
	return config.Load(appdir.ConfigPath())
}

func provideLogger() (*zap.Logger, error) {
	return logging.New(appdir.LogPath(), "chatviewd")
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring data directory lock", zap.String("dir", appdir.BaseDir()))
	l, err := lock.Acquire(appdir.BaseDir())
	if err != nil {
		return nil, err
	}
	logger.Info("data directory lock acquired")
	return l, nil
}

func provideStore(logger *zap.Logger) (*store.DB, error) {
	dbPath := appdir.DBPath()
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideArena() *media.Arena {
	return media.NewArena()
}

func provideImporter(db *store.DB, arena *media.Arena, b *bus.Bus, m *status.Machine, cfg *config.Config, logger *zap.Logger) *importer.Importer {
	return importer.New(db, arena, b, m, cfg.Order(), logger)
}

func provideIndex(b *bus.Bus, logger *zap.Logger) *search.Index {
	return search.NewIndex(b, logger)
}

func provideServer(p Params, cfg *config.Config, im *importer.Importer, ix *search.Index, arena *media.Arena, m *status.Machine, logger *zap.Logger) *api.Server {
	addr := cfg.HTTPAddr
	if p.HTTPAddr != "" {
		addr = p.HTTPAddr
	}
	return api.NewServer(addr, im, ix, arena, m, logger)
}

func registerLifecycle(lc fx.Lifecycle, srv *api.Server, im *importer.Importer, ix *search.Index, db *store.DB, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// Index rebuilds are event-driven from here on.
			ix.Start(context.Background())

			// Rehydrate the persisted chat; its import event seeds the index.
			if _, err := im.Load(context.Background()); err != nil {
				return err
			}

			go func() {
				if err := srv.Start(); err != nil {
					logger.Error("HTTP server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			srv.Stop(ctx)
			ix.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
