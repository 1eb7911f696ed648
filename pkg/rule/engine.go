package rule

import (
	"context"
	"sort"

	"github.com/endzone-defense/campaign-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

// Engine evaluates a signal against the registered rules.
type Engine struct {
	registry *Registry
}

// NewEngine creates an engine over registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
	}
}

// Evaluate returns the triggers of all matching rules, highest priority
// first. A failing rule is logged and skipped.
func (e *Engine) Evaluate(ctx context.Context, sig signal.Signal) ([]*Trigger, error) {
	if sig == nil {
		return nil, nil
	}

	rules := e.registry.GetBySignalType(sig.Type())
	if len(rules) == 0 {
		logrus.Debugf("no rules found for signal type '%s'", sig.Type())
		return nil, nil
	}

	var triggers []*Trigger
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return triggers, err
		}

		matched, trigger, err := rule.Evaluate(ctx, sig)
		if err != nil {
			logrus.Errorf("rule %s evaluation failed: %v", rule.ID(), err)
			continue
		}
		if matched && trigger != nil {
			logrus.Infof("rule %s triggered for user %s: %s", rule.ID(), sig.UserID(), trigger.Reason)
			triggers = append(triggers, trigger)
		}
	}

	sort.SliceStable(triggers, func(i, j int) bool {
		return triggers[i].Priority > triggers[j].Priority
	})
	return triggers, nil
}

// Registry returns the rule registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}
