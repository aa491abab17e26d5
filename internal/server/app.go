// Package server initializes and runs the application server: it opens the
// database, applies migrations, wires services to the HTTP API, and handles
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/verkhov/picvault/internal/dbx"
	"github.com/verkhov/picvault/internal/logging"
	"github.com/verkhov/picvault/internal/server/config"
	"github.com/verkhov/picvault/internal/server/db"
	"github.com/verkhov/picvault/internal/server/httpapi"
	"github.com/verkhov/picvault/internal/server/pictures"
	"github.com/verkhov/picvault/internal/server/storage"
	"github.com/verkhov/picvault/internal/server/users"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	router  *httpapi.RouterDeps
	cleaner *storage.Cleaner
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout)

	conn, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := db.RunMigrations(ctx, conn); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	userService := users.NewService(users.NewPostgresRepository(conn), cfg)
	pictureService := pictures.NewService(conn, func(h dbx.DBTX) pictures.Repository {
		return pictures.NewPostgresRepository(h)
	})

	objectStore := storage.NewObjectStore(cfg)
	cleaner := storage.NewCleaner(objectStore, logger)

	deps := &httpapi.RouterDeps{
		Logger:    logger,
		JWTSecret: []byte(cfg.SecretKey),
		Users:     userService,
		Pictures:  pictureService,
		Store:     objectStore,
		Cleaner:   cleaner,
	}

	return &App{config: cfg, logger: logger, router: deps, cleaner: cleaner}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, httpapi.NewRouter(app.router), app.logger)

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
		app.cleaner.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
