package rule

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds rules by ID.
type Registry struct {
	rules map[string]Rule
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
	}
}

// Register adds a rule. IDs must be unique.
func (r *Registry) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[rule.ID()]; exists {
		return fmt.Errorf("rule %s already registered", rule.ID())
	}
	r.rules[rule.ID()] = rule
	return nil
}

// Unregister removes a rule.
func (r *Registry) Unregister(ruleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rules[ruleID]; !exists {
		return fmt.Errorf("rule %s not found", ruleID)
	}
	delete(r.rules, ruleID)
	return nil
}

// Get returns a rule by ID or nil.
func (r *Registry) Get(ruleID string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[ruleID]
}

// GetBySignalType returns the enabled rules handling signalType, ordered
// by ID.
func (r *Registry) GetBySignalType(signalType string) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matching []Rule
	for _, rule := range r.rules {
		if !rule.Config().Enabled {
			continue
		}
		if handles(rule.SignalTypes(), signalType) {
			matching = append(matching, rule)
		}
	}
	sortRules(matching)
	return matching
}

// GetAll returns every registered rule ordered by ID.
func (r *Registry) GetAll() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sortRules(rules)
	return rules
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

func handles(signalTypes []string, signalType string) bool {
	if len(signalTypes) == 0 {
		return true
	}
	for _, st := range signalTypes {
		if st == signalType {
			return true
		}
	}
	return false
}

func sortRules(rules []Rule) {
	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID() < rules[j].ID()
	})
}
