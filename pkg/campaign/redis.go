// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTTL keeps an idle campaign for a year.
	DefaultTTL = 365 * 24 * time.Hour
	// KeyPrefix is the prefix for all campaign state keys
	KeyPrefix = "campaign_engine:campaign_state:"
)

// RedisStore keeps one JSON document per player.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis backed store. A non-positive ttl stores keys
// without expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func makeKey(playerID string) string {
	return fmt.Sprintf("%s%s", KeyPrefix, playerID)
}

// GetCampaignState loads a player's campaign. Returns ErrNoCampaignState
// when nothing is stored.
func (s *RedisStore) GetCampaignState(ctx context.Context, playerID string) (*State, error) {
	data, err := s.client.Get(ctx, makeKey(playerID)).Bytes()
	if err == redis.Nil {
		logrus.Debugf("no campaign state for player %s", playerID)
		return nil, ErrNoCampaignState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal campaign state: %w", err)
	}
	return &state, nil
}

// UpdateCampaignState overwrites a player's campaign.
func (s *RedisStore) UpdateCampaignState(ctx context.Context, playerID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal campaign state: %w", err)
	}

	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, makeKey(playerID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set campaign state: %w", err)
	}

	logrus.Debugf("updated campaign state for player %s with TTL %v", playerID, ttl)
	return nil
}

// DeleteCampaignState removes a player's campaign.
func (s *RedisStore) DeleteCampaignState(ctx context.Context, playerID string) error {
	if err := s.client.Del(ctx, makeKey(playerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete campaign state: %w", err)
	}
	logrus.Infof("deleted campaign state for player %s", playerID)
	return nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
