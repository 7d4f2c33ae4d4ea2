package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tasknest/handlers"
	"tasknest/store"
	"tasknest/ui"
	"tasknest/utils"
)

func main() {
	// Load environment variables
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Println("environment: ", cfg.Env)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sel, err := store.Resolve(cfg)
	if err != nil {
		log.Fatalf("Invalid storage configuration: %v", err)
	}

	taskStore, err := store.Open(rootCtx, sel)
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", sel.Backend, err)
	}
	defer taskStore.Close()

	if sel.Ephemeral() {
		log.Println("WARNING: no DATABASE_URL and no SQLite file at", cfg.SQLitePath,
			"- tasks are kept in memory and lost on restart")
	} else {
		log.Println("storage backend:", sel.Backend)
	}

	var api store.TaskStore = taskStore
	switch {
	case cfg.RedisURL == "":
	case sel.Ephemeral():
		log.Println("REDIS_URL ignored: the in-memory backend is not cached")
	default:
		redisPool, err := utils.OpenRedisPool(rootCtx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisPool.Close()
		cached, err := store.NewCachedStore(rootCtx, taskStore, redisPool, sel, cfg.CacheTTL, log.Default())
		if err != nil {
			log.Fatalf("Failed to set up task cache: %v", err)
		}
		api = cached
		log.Println("task list cache enabled, ttl", cfg.CacheTTL)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.Routes(api, sel.Backend, ui.Static(), log.Default()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server failed: %v", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
}
