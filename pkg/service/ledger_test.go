package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisEntriesLedger(t *testing.T) {
	_, client := setupTestRedis(t)
	ledger := NewRedisEntriesLedger(client)
	ctx := context.Background()

	total, err := ledger.Add(ctx, "player-1", "victory_entries", 4)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if total != 4 {
		t.Errorf("Expected total 4, got %d", total)
	}

	total, err = ledger.Add(ctx, "player-1", "high_score_entries", 2)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if total != 6 {
		t.Errorf("Expected total 6, got %d", total)
	}

	balance, err := ledger.Balance(ctx, "player-1")
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if balance.Total != 6 || balance.BySource["victory_entries"] != 4 || balance.BySource["high_score_entries"] != 2 {
		t.Errorf("unexpected balance %+v", balance)
	}

	total, err = ledger.Subtract(ctx, "player-1", "victory_entries", 10)
	if err != nil {
		t.Fatalf("Subtract() error = %v", err)
	}
	if total != 2 {
		t.Errorf("Expected subtract to stop at what the source holds, total = %d", total)
	}
}

func TestRedisEntriesLedger_UnknownPlayer(t *testing.T) {
	_, client := setupTestRedis(t)
	ledger := NewRedisEntriesLedger(client)

	balance, err := ledger.Balance(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if balance.Total != 0 || len(balance.BySource) != 0 {
		t.Errorf("Expected empty balance, got %+v", balance)
	}

	total, err := ledger.Subtract(context.Background(), "nobody", "victory_entries", 3)
	if err != nil {
		t.Fatalf("Subtract() error = %v", err)
	}
	if total != 0 {
		t.Errorf("Expected total 0, got %d", total)
	}
}

func TestRedisEntriesLedger_InvalidInput(t *testing.T) {
	_, client := setupTestRedis(t)
	ledger := NewRedisEntriesLedger(client)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"negative add", func() error { _, err := ledger.Add(ctx, "p", "s", -1); return err }},
		{"negative subtract", func() error { _, err := ledger.Subtract(ctx, "p", "s", -1); return err }},
		{"empty source", func() error { _, err := ledger.Add(ctx, "p", "", 1); return err }},
		{"reserved source", func() error { _, err := ledger.Add(ctx, "p", totalField, 1); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestRedisEntriesLedger_Unreachable(t *testing.T) {
	mr, client := setupTestRedis(t)
	ledger := NewRedisEntriesLedger(client)
	mr.Close()

	if _, err := ledger.Add(context.Background(), "p", "s", 1); err == nil {
		t.Error("Expected error when redis is down")
	}
}
