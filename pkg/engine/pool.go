package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/campaign"
	"github.com/endzone-defense/campaign-engine/pkg/stage"
	"github.com/endzone-defense/campaign-engine/pkg/upgrade"
	"github.com/sirupsen/logrus"
)

// GeneratorFactory builds the offer generator for a new engine.
type GeneratorFactory func() *upgrade.Generator

// Pool holds one engine per player for the host process.
type Pool struct {
	catalog      *stage.Catalog
	store        campaign.Store
	newGenerator GeneratorFactory
	managerOpts  []campaign.ManagerOption
	engineOpts   []Option

	now func() time.Time

	mu      sync.Mutex
	engines map[string]*pooledEngine
}

type pooledEngine struct {
	engine   *Engine
	lastUsed time.Time
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithManagerOptions applies options to every campaign manager.
func WithManagerOptions(opts ...campaign.ManagerOption) PoolOption {
	return func(p *Pool) {
		p.managerOpts = append(p.managerOpts, opts...)
	}
}

// WithEngineOptions applies options to every engine, typically observers.
func WithEngineOptions(opts ...Option) PoolOption {
	return func(p *Pool) {
		p.engineOpts = append(p.engineOpts, opts...)
	}
}

// WithPoolClock sets the time source used for idle tracking.
func WithPoolClock(now func() time.Time) PoolOption {
	return func(p *Pool) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPool creates an empty pool.
func NewPool(catalog *stage.Catalog, store campaign.Store, newGenerator GeneratorFactory, opts ...PoolOption) *Pool {
	if newGenerator == nil {
		newGenerator = func() *upgrade.Generator {
			return upgrade.NewGenerator(upgrade.DefaultPool())
		}
	}
	p := &Pool{
		catalog:      catalog,
		store:        store,
		newGenerator: newGenerator,
		now:          time.Now,
		engines:      make(map[string]*pooledEngine),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Catalog returns the stage catalog shared by all engines.
func (p *Pool) Catalog() *stage.Catalog {
	return p.catalog
}

// Get returns the player's engine, loading the campaign on first use. The
// load runs outside the pool lock; when two requests race, the first insert
// wins.
func (p *Pool) Get(ctx context.Context, playerID string) (*Engine, error) {
	if playerID == "" {
		return nil, fmt.Errorf("player id is required")
	}

	if e := p.lookup(playerID); e != nil {
		return e, nil
	}

	manager, err := campaign.NewManager(ctx, playerID, p.catalog, p.store, p.managerOpts...)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pe, ok := p.engines[playerID]; ok {
		pe.lastUsed = p.now()
		return pe.engine, nil
	}

	e := New(manager, p.newGenerator(), p.engineOpts...)
	p.engines[playerID] = &pooledEngine{engine: e, lastUsed: p.now()}
	logrus.Debugf("loaded engine for player %s (%d in pool)", playerID, len(p.engines))
	return e, nil
}

func (p *Pool) lookup(playerID string) *Engine {
	p.mu.Lock()
	defer p.mu.Unlock()
	pe, ok := p.engines[playerID]
	if !ok {
		return nil
	}
	pe.lastUsed = p.now()
	return pe.engine
}

// Len returns the number of loaded engines.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.engines)
}

// EvictIdle drops engines unused for longer than idle. Engines with an
// active session or a campaign write that cannot be flushed stay loaded.
// Returns the number evicted.
func (p *Pool) EvictIdle(ctx context.Context, idle time.Duration) int {
	cutoff := p.now().Add(-idle)

	p.mu.Lock()
	var candidates []*pooledEngine
	for _, pe := range p.engines {
		if pe.lastUsed.Before(cutoff) {
			candidates = append(candidates, pe)
		}
	}
	p.mu.Unlock()

	evicted := 0
	for _, pe := range candidates {
		e := pe.engine
		if e.Active() {
			continue
		}
		if err := e.Flush(ctx); err != nil {
			logrus.Warnf("keeping engine for player %s loaded: %v", e.PlayerID(), err)
			continue
		}

		p.mu.Lock()
		// a request may have touched the engine since the scan
		if cur, ok := p.engines[e.PlayerID()]; ok && cur == pe && pe.lastUsed.Before(cutoff) && !e.Active() {
			delete(p.engines, e.PlayerID())
			evicted++
		}
		p.mu.Unlock()
	}

	if evicted > 0 {
		logrus.Debugf("evicted %d idle engines (%d in pool)", evicted, p.Len())
	}
	return evicted
}

// FlushAll retries pending campaign writes of every loaded player.
func (p *Pool) FlushAll(ctx context.Context) error {
	p.mu.Lock()
	engines := make([]*Engine, 0, len(p.engines))
	for _, pe := range p.engines {
		engines = append(engines, pe.engine)
	}
	p.mu.Unlock()

	var errs []error
	for _, e := range engines {
		if err := e.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("player %s: %w", e.PlayerID(), err))
		}
	}
	return errors.Join(errs...)
}
