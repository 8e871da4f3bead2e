package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwrk-planet/canvas-service/config"
	"github.com/cwrk-planet/canvas-service/internal/canvas"
	"github.com/cwrk-planet/canvas-service/internal/service"
	"github.com/cwrk-planet/canvas-service/internal/session"
	httpx "github.com/cwrk-planet/canvas-service/internal/transport/http"
	"github.com/cwrk-planet/canvas-service/internal/transport/ws"
	"github.com/cwrk-planet/canvas-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	lg := logger.L()
	lg.Info("starting canvas-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- state (in-memory, живёт ровно столько же, сколько процесс) ---
	registry := session.NewRegistry()
	strokeLog := canvas.NewLog(cfg.Canvas.MaxStrokes)

	// --- WS Hub & Coordinator ---
	hub := ws.NewHub()
	coordinator := service.NewCoordinator(registry, strokeLog, hub)
	wsServer := ws.NewServer(hub, coordinator, cfg.PingEvery())

	// --- HTTP ---
	handler := httpx.NewHandler(registry, strokeLog)
	router := httpx.NewRouter(handler, wsServer)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		lg.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- периодический sweep пустых неактивных комнат ---
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.SweepEvery())
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := registry.SweepInactiveRooms(cfg.MaxIdle()); n > 0 {
					lg.Info("swept inactive rooms", "deleted", n)
				}
			case <-sweepDone:
				return
			}
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		lg.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		lg.Error("server error", "err", err)
	}

	close(sweepDone)

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	lg.Info("stopped")
}
