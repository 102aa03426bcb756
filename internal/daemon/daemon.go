package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/grindset/grindset/internal/api"
	"github.com/grindset/grindset/internal/app/discipline"
	"github.com/grindset/grindset/internal/app/habit"
	"github.com/grindset/grindset/internal/infra/observability"
	"github.com/grindset/grindset/internal/infra/sqlite"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Daemon owns the database and every service built on it.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Habits *habit.Service
	Engine *discipline.Engine

	logger *zap.Logger
	server *api.Server
}

// New opens storage and wires services. Call Close when done.
func New(cfg Config, logger *zap.Logger) (*Daemon, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	habits := habit.NewService(db, loc, logger.Named("habit"))
	engine := discipline.New(discipline.Config{Location: loc}, logger.Named("discipline"))
	if cfg.Metrics.Enabled {
		rec := observability.NewRecorder()
		habits.SetRecorder(rec)
		engine.SetRecorder(rec)
	}

	server := api.NewServer(habits, engine, db, logger.Named("api"))
	if cfg.Metrics.Enabled {
		server.EnableMetrics()
	}

	return &Daemon{
		Config: cfg,
		DB:     db,
		Habits: habits,
		Engine: engine,
		logger: logger,
		server: server,
	}, nil
}

// Handler returns the HTTP handler for the API.
func (d *Daemon) Handler() http.Handler { return d.server.Handler() }

// Run serves the API on the configured address until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", d.Config.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", d.Config.Addr(), err)
	}
	return d.Serve(ctx, ln)
}

// Serve serves the API on ln until ctx is cancelled, then shuts down gracefully.
func (d *Daemon) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           d.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.logger.Info("grindset API listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		d.logger.Info("shutting down API")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close releases storage.
func (d *Daemon) Close() error {
	return d.DB.Close()
}
