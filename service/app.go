package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"reeltalk/app/repositories"
	"reeltalk/app/routes"
	"reeltalk/app/session"
	"reeltalk/config"
	"reeltalk/logger"
)

const shutdownTimeout = 10 * time.Second

// RunAppServer serves the blog until ctx is cancelled, then drains in-flight
// requests and closes both stores.
func RunAppServer(ctx context.Context, cfg config.Config) error {
	key, err := cfg.SessionKey()
	if err != nil {
		return err
	}
	if cfg.SessionSecret == "" {
		logger.Warning("No SESSION_SECRET set; using a random key, sessions end on restart")
	}

	repo, err := repositories.NewRepository(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer repo.Close()

	sessionDB, err := openSessionStore(cfg.SessionDir)
	if err != nil {
		return err
	}
	defer sessionDB.Close()

	router, err := routes.SetupMVCRoutes(repo, session.NewManager(sessionDB, cfg.SessionMaxAge, key))
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	logger.Infof("ReelTalk listening on %s", listener.Addr())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
