package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/agenda-backend/internal/data/db"
	"github.com/yungbote/agenda-backend/internal/data/schedulestore"
	server "github.com/yungbote/agenda-backend/internal/http"
	"github.com/yungbote/agenda-backend/internal/observability"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

const shutdownGrace = 15 * time.Second

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Service
	Repos    Repos
	Store    schedulestore.Store
	Services Services
	Handlers Handlers
	Server   *server.Server
	Metrics  *observability.Metrics

	otelShutdown func(context.Context) error
}

// New loads configuration and wires every component. It never exits the
// process; the caller decides what to do with the error.
func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Sync()
		return nil, err
	}

	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Endpoint:    cfg.OtelEndpoint,
		Headers:     cfg.OtelHeaders,
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})

	if err := a.openStorage(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Metrics = observability.NewMetrics()
	a.Services, err = wireServices(ctx, log, cfg, a.Repos, a.Store, a.Metrics)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Handlers = wireHandlers(log, a.Services)
	a.Server = wireServer(log, cfg, a.Handlers, a.Metrics)
	return a, nil
}

// OpenStorage wires only the conversation log and the schedule store, for
// commands that inspect state without serving requests.
func OpenStorage(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := cfg.ValidateStorage(); err != nil {
		log.Sync()
		return nil, err
	}
	a := &App{Log: log, Cfg: cfg}
	if err := a.openStorage(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) openStorage(ctx context.Context) error {
	svc, err := db.Open(a.Log, a.Cfg.DatabaseURL, db.Options{})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	a.DB = svc
	if err := svc.AutoMigrateAll(); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	a.Repos = wireRepos(svc.DB(), a.Log)
	a.Store, err = wireScheduleStore(svc.DB(), a.Log, a.Cfg)
	if err != nil {
		return err
	}
	if _, err := a.Store.Read(ctx); err != nil {
		return fmt.Errorf("schedule store not readable: %w", err)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("Server listening", "addr", a.Server.Addr())
		return a.Server.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		a.Log.Info("Server shutting down")
		return a.Server.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Store != nil {
		if err := schedulestore.Close(a.Store); err != nil && a.Log != nil {
			a.Log.Warn("Schedule store close failed", "error", err)
		}
		a.Store = nil
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && a.Log != nil {
			a.Log.Warn("Database close failed", "error", err)
		}
		a.DB = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.otelShutdown(ctx)
		cancel()
		a.otelShutdown = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
