package action

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ActionFactory creates an action from its configuration.
type ActionFactory func(config ActionConfig) (Action, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]ActionFactory)
)

// RegisterActionType registers the factory for an action type. Built-in
// types need service dependencies and are registered by builtin.RegisterActions.
func RegisterActionType(actionType string, factory ActionFactory) {
	factoriesMu.Lock()
	factories[actionType] = factory
	factoriesMu.Unlock()
	logrus.Debugf("registered action type: %s", actionType)
}

// IsRegisteredType reports whether a factory exists for actionType.
func IsRegisteredType(actionType string) bool {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	_, ok := factories[actionType]
	return ok
}

// CreateAction builds an action. Disabled actions yield nil without error.
func CreateAction(config ActionConfig) (Action, error) {
	if !config.Enabled {
		logrus.Infof("skipping disabled action: %s", config.ID)
		return nil, nil
	}

	factoriesMu.RLock()
	factory, exists := factories[config.Type]
	factoriesMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unknown action type: %s", config.Type)
	}

	logrus.Infof("creating action: id=%s, type=%s", config.ID, config.Type)
	return factory(config)
}

// RegisterActions creates the configured actions and adds them to registry.
// Any creation failure is returned.
func RegisterActions(registry *Registry, configs []ActionConfig) error {
	count := 0
	for _, config := range configs {
		a, err := CreateAction(config)
		if err != nil {
			return fmt.Errorf("failed to create action %s: %w", config.ID, err)
		}
		if a == nil {
			continue
		}
		if err := registry.Register(a); err != nil {
			return fmt.Errorf("failed to register action %s: %w", a.ID(), err)
		}
		count++
	}

	logrus.Infof("registered %d actions", count)
	return nil
}
