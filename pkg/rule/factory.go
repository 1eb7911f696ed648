package rule

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// RuleFactory creates a rule from its configuration.
type RuleFactory func(config RuleConfig) (Rule, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]RuleFactory)
)

// RegisterRuleType registers the factory for a rule type. Built-in types
// register themselves from package builtin.
func RegisterRuleType(ruleType string, factory RuleFactory) {
	factoriesMu.Lock()
	factories[ruleType] = factory
	factoriesMu.Unlock()
	logrus.Debugf("registered rule type: %s", ruleType)
}

// IsRegisteredType reports whether a factory exists for ruleType.
func IsRegisteredType(ruleType string) bool {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	_, ok := factories[ruleType]
	return ok
}

// CreateRule builds a rule. Disabled rules yield nil without error.
func CreateRule(config RuleConfig) (Rule, error) {
	if !config.Enabled {
		logrus.Infof("skipping disabled rule: %s", config.ID)
		return nil, nil
	}

	factoriesMu.RLock()
	factory, exists := factories[config.Type]
	factoriesMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unknown rule type: %s", config.Type)
	}

	logrus.Infof("creating rule: id=%s, type=%s, priority=%d", config.ID, config.Type, config.Priority)
	return factory(config)
}

// CreateRules builds every enabled rule and collects the failures.
func CreateRules(configs []RuleConfig) ([]Rule, []error) {
	var rules []Rule
	var errs []error

	for _, config := range configs {
		rule, err := CreateRule(config)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to create rule %s: %w", config.ID, err))
			continue
		}
		if rule != nil {
			rules = append(rules, rule)
		}
	}
	return rules, errs
}

// RegisterRules creates the configured rules and adds them to registry.
// Creation failures are logged and skipped; a duplicate ID is an error.
func RegisterRules(registry *Registry, configs []RuleConfig) error {
	rules, errs := CreateRules(configs)
	for _, err := range errs {
		logrus.Warnf("rule creation error: %v", err)
	}

	for _, rule := range rules {
		if err := registry.Register(rule); err != nil {
			return fmt.Errorf("failed to register rule %s: %w", rule.ID(), err)
		}
	}

	logrus.Infof("registered %d rules", len(rules))
	return nil
}
