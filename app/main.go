package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"taskmanager/app/config"
	"taskmanager/app/controllers"
	"taskmanager/app/logging"
	"taskmanager/app/routes"
	"taskmanager/app/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.Debug)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the store selected by TASKMGR_STORE
	st, err := cfg.OpenStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())
	logger.Info("store connected", "driver", cfg.Store.Driver)

	if cfg.UsesDefaultSecret() {
		logger.Warn("JWT_SECRET is not set, signing tokens with the development key")
	}

	// Initialize the service layer
	authService := services.NewAuthService(st, services.AuthOptions{
		Secret:     cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
		Timeout:    cfg.Store.Timeout,
	})
	taskService := services.NewTaskService(st, st, services.TaskOptions{
		StrictPriority: cfg.Tasks.StrictPriority,
		Timeout:        cfg.Store.Timeout,
	})

	// Initialize the controller layer
	authController := controllers.NewAuthController(authService, logger)
	taskController := controllers.NewTaskController(taskService, logger)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: routes.NewHandler(authController, taskController, authService, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
