package action

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds actions by ID.
type Registry struct {
	actions map[string]Action
	mu      sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]Action),
	}
}

// Register adds an action. IDs must be unique.
func (r *Registry) Register(action Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[action.ID()]; exists {
		return fmt.Errorf("action %s already registered", action.ID())
	}
	r.actions[action.ID()] = action
	return nil
}

// Get returns an action by ID or nil.
func (r *Registry) Get(actionID string) Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[actionID]
}

// GetAll returns all actions ordered by ID.
func (r *Registry) GetAll() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]Action, 0, len(r.actions))
	for _, a := range r.actions {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool {
		return actions[i].ID() < actions[j].ID()
	})
	return actions
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}
