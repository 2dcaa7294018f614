package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phishguard/internal/admin"
	"phishguard/internal/alert"
	"phishguard/internal/api"
	"phishguard/internal/config"
	"phishguard/internal/mailbox"
	"phishguard/internal/redisstore"
	"phishguard/internal/reputation"
	"phishguard/internal/scanner"
)

func main() {
	cfg := config.Load()

	store, err := redisstore.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	sc := scanner.New(
		mailbox.NewDialer(cfg),
		reputation.NewHTTPChecker(cfg),
		alert.NewSMTPNotifier(cfg),
		store,
		cfg.MaxEmailBytes,
	)

	adminHandler, err := admin.NewHandler(cfg.AdminPassword, cfg.JWTSecret, store)
	if err != nil {
		log.Fatalf("Failed to set up admin auth: %v", err)
	}

	handler := api.New(cfg, store, sc, adminHandler)
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler.Router(),
	}

	go func() {
		log.Printf("API server starting on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exiting")
}
