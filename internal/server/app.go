// Package server wires the application together: configuration, database,
// services, exam content loading, and the HTTP server, with signal-driven
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/cfsexam/internal/logging"
	"github.com/dmitrijs2005/cfsexam/internal/server/auth"
	"github.com/dmitrijs2005/cfsexam/internal/server/config"
	"github.com/dmitrijs2005/cfsexam/internal/server/db"
	"github.com/dmitrijs2005/cfsexam/internal/server/exam"
	"github.com/dmitrijs2005/cfsexam/internal/server/httpapi"
	"github.com/dmitrijs2005/cfsexam/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
	guard       *auth.Guard
	examStore   *exam.Store
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	conn, err := db.Open(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repo := users.NewPostgresRepository(conn)
	us := users.NewService(repo, cfg)
	guard := auth.NewGuard(repo, cfg.SecretKey)

	// The exams CSV comes either from local disk or from an S3-compatible
	// object store, depending on configuration.
	var source exam.Source
	if cfg.S3Enabled {
		source = exam.NewS3Source(cfg)
	} else {
		source = exam.NewFileSource(cfg.ExamsFile)
	}
	store := exam.NewStore(exam.NewCSVLoader(source), cfg.PageSize)

	return &App{
		config:      cfg,
		logger:      logger,
		userService: us,
		guard:       guard,
		examStore:   store,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config, app.logger, app.userService, app.guard, app.examStore)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
