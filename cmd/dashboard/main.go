// cmd/dashboard/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SunWolf77/SUPT-Dashboard/internal/alerting"
	"github.com/SunWolf77/SUPT-Dashboard/internal/api"
	"github.com/SunWolf77/SUPT-Dashboard/internal/config"
	"github.com/SunWolf77/SUPT-Dashboard/internal/feeds"
	"github.com/SunWolf77/SUPT-Dashboard/internal/refresh"
	"github.com/SunWolf77/SUPT-Dashboard/internal/storage"
	"github.com/SunWolf77/SUPT-Dashboard/internal/stress"
	"github.com/SunWolf77/SUPT-Dashboard/internal/websocket"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := flag.String("config", ".", "Path to the configuration file directory")
	webDir := flag.String("webdir", "./web", "Path to the web assets directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	log.Printf("Starting SUPT Live Forecast Dashboard (refresh every %s, threshold %.1f)",
		cfg.Refresh.Interval, cfg.Stress.Threshold)

	// --- Initialize Components ---
	store := storage.NewSnapshotStore(cfg.Refresh.History)
	hub := websocket.NewHub()
	evaluator := stress.NewEvaluator(cfg)
	feedClient := feeds.NewClient(cfg)
	alerter := alerting.NewAlerter(hub)
	refresher := refresh.NewRefresher(feedClient, evaluator, store, hub, alerter, cfg.Refresh.Interval)

	apiHandler := api.NewAPIHandler(store, refresher, hub, *webDir)

	// --- Start Background Loops ---
	go hub.Run()

	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	go refresher.Run(refreshCtx)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.SetupRouter(apiHandler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // WebSocket connections stay open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Dashboard listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Optional dedicated metrics listener; /metrics stays on the main
	// router either way.
	if cfg.Server.MetricsAddr != "" {
		go func() {
			log.Printf("Metrics listening on %s", cfg.Server.MetricsAddr)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Server.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Metrics server error: %v", err)
			}
		}()
	}

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	stopRefresh()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server stopped gracefully")
}
