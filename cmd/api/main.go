package main

import (
	"context"
	"errors"
	"github.com/labstack/gommon/log"
	"net/http"
	"os"
	"os/signal"
	"slotly/cmd/internal/config"
	"slotly/cmd/internal/server"
	"syscall"
	"time"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", err)
	}
	if cfg.JWTSecretGenerated {
		log.Warn("JWT_SECRET not set, using a generated secret; tokens will not survive a restart")
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal("failed to initialize server", err)
	}
	defer srv.Close()

	go func() {
		err := srv.Echo.Start(":" + cfg.Port)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Echo.Shutdown(ctx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
