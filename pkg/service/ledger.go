package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

const (
	// EntriesKeyPrefix prefixes the per-player ledger hash.
	EntriesKeyPrefix = "campaign_engine:entries:"

	totalField = "_total"
)

// RedisEntriesLedger keeps one hash per player: a field per source plus a
// running total.
type RedisEntriesLedger struct {
	client redis.UniversalClient
}

func NewRedisEntriesLedger(client redis.UniversalClient) *RedisEntriesLedger {
	return &RedisEntriesLedger{client: client}
}

func entriesKey(playerID string) string {
	return EntriesKeyPrefix + playerID
}

// Add credits entries to source and returns the new total.
func (l *RedisEntriesLedger) Add(ctx context.Context, playerID, source string, entries int64) (int64, error) {
	if entries < 0 {
		return 0, fmt.Errorf("entries must not be negative, got %d", entries)
	}
	return l.incr(ctx, playerID, source, entries)
}

// Subtract debits entries from source, never below what source holds.
func (l *RedisEntriesLedger) Subtract(ctx context.Context, playerID, source string, entries int64) (int64, error) {
	if entries < 0 {
		return 0, fmt.Errorf("entries must not be negative, got %d", entries)
	}

	held, err := l.client.HGet(ctx, entriesKey(playerID), source).Int64()
	if err != nil && err != redis.Nil {
		return 0, fmt.Errorf("failed to read entries for %s: %w", playerID, err)
	}
	if entries > held {
		entries = held
	}
	return l.incr(ctx, playerID, source, -entries)
}

func (l *RedisEntriesLedger) incr(ctx context.Context, playerID, source string, delta int64) (int64, error) {
	if source == "" || source == totalField {
		return 0, fmt.Errorf("invalid entries source %q", source)
	}

	key := entriesKey(playerID)
	var total *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, key, source, delta)
		total = pipe.HIncrBy(ctx, key, totalField, delta)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update entries for %s: %w", playerID, err)
	}
	return total.Val(), nil
}

// Balance returns the player's ledger. Unknown players have zero entries.
func (l *RedisEntriesLedger) Balance(ctx context.Context, playerID string) (*Entries, error) {
	fields, err := l.client.HGetAll(ctx, entriesKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read entries for %s: %w", playerID, err)
	}

	out := &Entries{PlayerID: playerID, BySource: make(map[string]int64)}
	for field, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt entries field %s for %s: %w", field, playerID, err)
		}
		if field == totalField {
			out.Total = n
			continue
		}
		out.BySource[field] = n
	}
	return out, nil
}
