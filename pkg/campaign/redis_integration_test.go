// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

//go:build integration

package campaign

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/stage"
	"github.com/endzone-defense/campaign-engine/pkg/victory"
	"github.com/go-redis/redis/v8"
)

// Runs against a real Redis:
//
//	REDIS_HOST=localhost REDIS_PORT=6379 go test -tags integration ./pkg/campaign/
func TestRedisStore_Integration(t *testing.T) {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: host + ":" + port, Password: os.Getenv("REDIS_PASSWORD")})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable at %s:%s: %v", host, port, err)
	}

	store := NewRedisStore(client, time.Hour)
	catalog := stage.DefaultCatalog()
	playerID := fmt.Sprintf("integration-player-%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = store.DeleteCampaignState(ctx, playerID) })

	if _, err := store.GetCampaignState(ctx, playerID); !errors.Is(err, ErrNoCampaignState) {
		t.Fatalf("GetCampaignState() for new player error = %v, expected ErrNoCampaignState", err)
	}

	state := NewState(playerID, catalog)
	update := ApplySessionEnd(state, catalog, win("int-s1", 1, 1500, victory.TypeStageComplete), time.Now())
	if !update.Applied {
		t.Fatal("expected the first win to apply")
	}
	if err := store.UpdateCampaignState(ctx, playerID, state); err != nil {
		t.Fatalf("UpdateCampaignState() error = %v", err)
	}

	got, err := store.GetCampaignState(ctx, playerID)
	if err != nil {
		t.Fatalf("GetCampaignState() error = %v", err)
	}
	if got.GamesWon != 1 || !got.IsUnlocked(2) || !got.HasApplied("int-s1") {
		t.Errorf("stored state = %+v", got)
	}
	if hs, ok := got.HighScore(1); !ok || hs != 1500 {
		t.Errorf("HighScore(1) = %d, %v", hs, ok)
	}

	ttl, err := client.TTL(ctx, KeyPrefix+playerID).Result()
	if err != nil || ttl <= 0 {
		t.Errorf("TTL = %v, %v, expected a positive expiry", ttl, err)
	}

	if err := store.DeleteCampaignState(ctx, playerID); err != nil {
		t.Fatalf("DeleteCampaignState() error = %v", err)
	}
	if _, err := store.GetCampaignState(ctx, playerID); !errors.Is(err, ErrNoCampaignState) {
		t.Errorf("GetCampaignState() after delete error = %v", err)
	}
}
