// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package campaign

import (
	"context"
	"errors"
)

// ErrNoCampaignState is returned by a Store when a player has no saved campaign.
var ErrNoCampaignState = errors.New("no campaign state")

// Store persists campaign state per player.
type Store interface {
	GetCampaignState(ctx context.Context, playerID string) (*State, error)
	UpdateCampaignState(ctx context.Context, playerID string, state *State) error
	DeleteCampaignState(ctx context.Context, playerID string) error
	Ping(ctx context.Context) error
}
