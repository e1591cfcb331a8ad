package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"camrelay/internal/config"
	"camrelay/internal/logger"
	"camrelay/internal/repository"
	"camrelay/internal/repository/sqlite"
	"camrelay/internal/route"
	"camrelay/internal/service"
	"camrelay/internal/service/storage"
	"camrelay/internal/service/websocket"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	hubService *websocket.HubService
	manager    *service.Manager
	server     *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	writer := storage.NewWriter(cfg.UploadDirectory)

	var (
		db        *sqlite.DB
		imageRepo repository.ImageRepository
	)
	if cfg.IndexEnabled() {
		db, err = sqlite.New(cfg.IndexPath)
		if err != nil {
			log.Close()
			return nil, fmt.Errorf("failed to open image index: %w", err)
		}
		imageRepo = sqlite.NewImageRepository(db)
	}

	hub := websocket.NewHubService(log)
	mng := service.NewManager(writer, imageRepo, hub, log)

	return &App{
		config:     cfg,
		logger:     log,
		db:         db,
		hubService: hub,
		manager:    mng,
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           route.SetupRoutes(mng, cfg, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves until SIGINT/SIGTERM, then shuts the server and hub down.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.close()

	go a.hubService.Run(ctx)

	scheme := "http"
	if a.config.TLSEnabled() {
		scheme = "https"
	}
	a.logger.Info("Capture relay listening on %s://%s", scheme, a.config.Addr())
	a.logger.Info("Uploads: %s", a.config.UploadDirectory)
	if a.db != nil {
		a.logger.Info("Image index: %s", a.config.IndexPath)
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if a.config.TLSEnabled() {
			err = a.server.ListenAndServeTLS(a.config.TLSCertFile, a.config.TLSKeyFile)
		} else {
			err = a.server.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *App) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Error closing image index: %v", err)
		}
	}
	a.logger.Close()
}
