package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phishguard/internal/alert"
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

	ctx, cancel := context.WithCancel(context.Background())
	go run(ctx, cfg, sc)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down poller...")

	cancel()
}

// run invokes one scan immediately and then one per tick. Each invocation
// is an independent bounded unit of work; scheduling lives only here.
func run(ctx context.Context, cfg *config.Config, sc *scanner.Scanner) {
	ticker := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer ticker.Stop()

	log.Println("Poller started")

	results := sc.Scan(ctx)
	log.Printf("scan finished: %d messages", len(results))

	for {
		select {
		case <-ctx.Done():
			log.Println("Poller stopping...")
			return
		case <-ticker.C:
			results := sc.Scan(ctx)
			log.Printf("scan finished: %d messages", len(results))
		}
	}
}
