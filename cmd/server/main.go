/*
main.go - Application entry point

PURPOSE:
  Starts the business-trip reconciliation service: SQLite store, HTTP API,
  and the monthly processing scheduler, with graceful shutdown.

CONFIGURATION:
  A .env file (if present) is loaded first; flags override environment:
    -port        HTTP server port        (env PORT, default 8080)
    -db          SQLite database path    (env DATABASE_PATH, default trip.db)
    -scheduler   Enable monthly scheduler (env SCHEDULER_ENABLED, default true)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop the scheduler, drain active requests (30s
  timeout), close the database.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/timbrature/trip-engine/api"
	"github.com/timbrature/trip-engine/store/sqlite"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("[Server] Loaded configuration from .env")
	}

	var (
		port      = flag.String("port", envOr("PORT", "8080"), "HTTP server port")
		dbPath    = flag.String("db", envOr("DATABASE_PATH", "trip.db"), "SQLite database path (use :memory: for in-memory)")
		scheduler = flag.Bool("scheduler", envOr("SCHEDULER_ENABLED", "true") == "true", "enable monthly processing scheduler")
	)
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("[Server] Failed to open store: %v", err)
	}
	defer store.Close()
	log.Printf("[Server] Store ready at %s", *dbPath)

	handler := api.NewHandler(store)
	router := api.NewRouter(handler)

	monthly := api.NewMonthlyScheduler(handler)
	monthly.Enabled = *scheduler
	monthly.Start()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", *port),
		Handler: router,
	}

	go func() {
		log.Printf("[Server] Listening on :%s", *port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Server] Listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[Server] Shutting down...")

	monthly.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[Server] Forced shutdown: %v", err)
	}
	log.Println("[Server] Stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
