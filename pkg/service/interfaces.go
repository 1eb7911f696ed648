package service

import "context"

// EntitlementGranter grants a platform item to a player.
type EntitlementGranter interface {
	GrantEntitlement(ctx context.Context, userID, itemID string, quantity int) error
}

// StatisticUpdater increments a player statistic on the platform.
type StatisticUpdater interface {
	IncrementStat(ctx context.Context, userID, statCode string, inc float64) error
}

// EntriesLedger tracks giveaway entries per player. Amounts are recorded
// per source so a rollback can take back exactly what one source gave.
type EntriesLedger interface {
	Add(ctx context.Context, playerID, source string, entries int64) (int64, error)
	Subtract(ctx context.Context, playerID, source string, entries int64) (int64, error)
	Balance(ctx context.Context, playerID string) (*Entries, error)
}

// Entries is a player's ledger.
type Entries struct {
	PlayerID string           `json:"playerId"`
	Total    int64            `json:"total"`
	BySource map[string]int64 `json:"bySource"`
}
