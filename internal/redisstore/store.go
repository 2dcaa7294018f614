package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"phishguard/internal/domain"
)

const (
	keyLogIndex  = "scanlog:ids"
	keyLogPrefix = "scanlog:"
)

// Store persists scan log entries in Redis. Entries are append-only and
// carry no TTL: the scan log is durable, unlike the transient state the
// rate limiter keeps.
type Store struct {
	client *redis.Client
}

func New(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &Store{client: client}, nil
}

// AppendLog persists one scanned message and returns the assigned id. The
// entry value and the index list are written in one transaction so a
// listed id always resolves to a record.
func (s *Store) AppendLog(ctx context.Context, entry *domain.LogEntry) (string, error) {
	entry.ID = ulid.Make().String()

	data, err := json.Marshal(entry)
	if err != nil {
		return "", err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, keyLogPrefix+entry.ID, data, 0)
	pipe.RPush(ctx, keyLogIndex, entry.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("append log entry: %w", err)
	}

	return entry.ID, nil
}

// ListLogs returns every log entry in insertion order. Entries that cannot
// be decoded are reported and skipped rather than failing the listing.
func (s *Store) ListLogs(ctx context.Context) ([]*domain.LogEntry, error) {
	ids, err := s.client.LRange(ctx, keyLogIndex, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.LogEntry{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, keyLogPrefix+id)
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LogEntry, 0, len(vals))
	for i, val := range vals {
		str, ok := val.(string)
		if !ok {
			log.Printf("redisstore: log entry %s missing", ids[i])
			continue
		}
		var entry domain.LogEntry
		if err := json.Unmarshal([]byte(str), &entry); err != nil {
			log.Printf("redisstore: log entry %s unreadable: %v", ids[i], err)
			continue
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

// CountLogs returns the number of persisted log entries.
func (s *Store) CountLogs(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, keyLogIndex).Result()
}

// RateLimit counts one hit for ip/action and reports whether the caller is
// still within limit for the window.
func (s *Store) RateLimit(ctx context.Context, ip string, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", action, ip)

	pipe := s.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, err
	}

	return incr.Val() <= int64(limit), nil
}
