// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package campaign

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/endzone-defense/campaign-engine/pkg/metrics"
	"github.com/endzone-defense/campaign-engine/pkg/stage"
	"github.com/endzone-defense/campaign-engine/pkg/victory"
	"github.com/sirupsen/logrus"
)

// DefaultPersistRetries is the number of retries Flush makes for a campaign write.
const DefaultPersistRetries = 3

// Manager is the single writer of one player's campaign. Readers get
// snapshots; only OnSessionEnd mutates.
type Manager struct {
	playerID string
	catalog  *stage.Catalog
	store    Store

	// serializes store writes so an older snapshot never lands after a newer one
	writeMu sync.Mutex
	mu      sync.RWMutex
	state   *State
	dirty   bool
	version uint64

	maxRetries uint64
	newBackOff func() backoff.BackOff
	now        func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithPersistRetries sets how many times Flush retries a failed write.
func WithPersistRetries(n int) ManagerOption {
	return func(m *Manager) {
		if n >= 0 {
			m.maxRetries = uint64(n)
		}
	}
}

// WithBackOff replaces the retry schedule of campaign writes.
func WithBackOff(fn func() backoff.BackOff) ManagerOption {
	return func(m *Manager) {
		if fn != nil {
			m.newBackOff = fn
		}
	}
}

// WithClock sets the time source used for UpdatedAt.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager loads the player's campaign from the store, starting a new one
// when none exists.
func NewManager(ctx context.Context, playerID string, catalog *stage.Catalog, store Store, opts ...ManagerOption) (*Manager, error) {
	if playerID == "" {
		return nil, fmt.Errorf("player id is required")
	}
	if catalog == nil || store == nil {
		return nil, fmt.Errorf("catalog and store are required")
	}

	m := &Manager{
		playerID:   playerID,
		catalog:    catalog,
		store:      store,
		maxRetries: DefaultPersistRetries,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	state, err := store.GetCampaignState(ctx, playerID)
	switch {
	case errors.Is(err, ErrNoCampaignState):
		logrus.Infof("starting new campaign for player %s", playerID)
		state = NewState(playerID, catalog)
	case err != nil:
		return nil, fmt.Errorf("failed to load campaign for player %s: %w", playerID, err)
	default:
		state.PlayerID = playerID
		state.normalize(catalog)
	}

	m.state = state
	return m, nil
}

// PlayerID returns the owner of this campaign.
func (m *Manager) PlayerID() string {
	return m.playerID
}

// Catalog returns the stage catalog the campaign runs on.
func (m *Manager) Catalog() *stage.Catalog {
	return m.catalog
}

// Snapshot returns a copy of the current campaign state.
func (m *Manager) Snapshot() *State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// IsUnlocked reports whether the stage is in the unlocked set.
func (m *Manager) IsUnlocked(stageID int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.IsUnlocked(stageID)
}

// IsEligible reports whether the catalog unlock rule holds for the stage
// against the current campaign.
func (m *Manager) IsEligible(stageID int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalog.IsUnlockEligible(stageID, m.state)
}

// VictoryContext returns what the resolver needs for a stage.
func (m *Manager) VictoryContext(stageID int) victory.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return VictoryContext(m.state, m.catalog, stageID)
}

// Dirty reports whether the in-memory state has changes the store has not
// accepted yet.
func (m *Manager) Dirty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirty
}

// OnSessionEnd merges a finished session and makes one attempt to persist
// the result. A failed write is logged and leaves the manager dirty; the
// in-memory state stays authoritative and Flush retries it later.
func (m *Manager) OnSessionEnd(ctx context.Context, end SessionEnd) Update {
	m.mu.Lock()
	next := m.state.Clone()
	update := ApplySessionEnd(next, m.catalog, end, m.now())
	if err := CheckUpwardClosed(next, m.catalog); err != nil {
		// never expected; keep the previous state rather than store a gap
		m.mu.Unlock()
		logrus.Errorf("rejecting campaign update for player %s: %v", m.playerID, err)
		return Update{}
	}
	m.state = next
	if update.Applied {
		m.dirty = true
		m.version++
	}
	m.mu.Unlock()

	if update.Applied {
		metrics.StagesUnlocked.Add(float64(len(update.UnlockedStages)))
	}

	if err := m.writeOnce(ctx); err != nil {
		metrics.PersistFailures.Inc()
		logrus.Errorf("failed to persist campaign for player %s, keeping in-memory state: %v", m.playerID, err)
		return update
	}
	update.Persisted = true
	return update
}

// Flush writes the state if a previous write failed, retrying with backoff.
// The write lock is only held per attempt.
func (m *Manager) Flush(ctx context.Context) error {
	if !m.Dirty() {
		return nil
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := m.writeOnce(ctx)
		if err != nil {
			logrus.Warnf("campaign write for player %s failed (attempt %d): %v", m.playerID, attempt, err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(m.newBackOff(), m.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		metrics.PersistFailures.Inc()
		return err
	}
	logrus.Infof("flushed campaign for player %s", m.playerID)
	return nil
}

// writeOnce stores the latest state when it is dirty. The dirty flag is only
// cleared when no change landed while the write was in flight.
func (m *Manager) writeOnce(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.RLock()
	dirty, version := m.dirty, m.version
	snapshot := m.state.Clone()
	m.mu.RUnlock()

	if !dirty {
		return nil
	}
	if err := m.store.UpdateCampaignState(ctx, m.playerID, snapshot); err != nil {
		return err
	}

	m.mu.Lock()
	if m.version == version {
		m.dirty = false
	}
	m.mu.Unlock()
	return nil
}
