package builtin

import (
	"context"
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/rule"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
	signalBuiltin "github.com/endzone-defense/campaign-engine/pkg/signal/builtin"
)

const (
	// ComboStreakRuleID matches sessions with a long combo.
	ComboStreakRuleID = "combo_streak"

	// DefaultComboThreshold is the max combo needed to trigger.
	DefaultComboThreshold = 25
)

// ComboStreakRule triggers when the session's max combo reaches
// "threshold". With "victory_only" set, defeats are ignored.
type ComboStreakRule struct {
	config      rule.RuleConfig
	threshold   int
	victoryOnly bool
}

func NewComboStreakRule(config rule.RuleConfig) (*ComboStreakRule, error) {
	threshold := config.GetInt("threshold", DefaultComboThreshold)
	if threshold <= 0 {
		return nil, fmt.Errorf("combo_streak threshold must be positive, got %d", threshold)
	}
	return &ComboStreakRule{
		config:      config,
		threshold:   threshold,
		victoryOnly: config.GetBool("victory_only", false),
	}, nil
}

func (r *ComboStreakRule) ID() string {
	return r.config.ID
}

func (r *ComboStreakRule) Name() string {
	return "Combo Streak"
}

func (r *ComboStreakRule) SignalTypes() []string {
	return []string{signalBuiltin.TypeSessionEnd}
}

func (r *ComboStreakRule) Config() rule.RuleConfig {
	return r.config
}

func (r *ComboStreakRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	end, err := asSessionEnd(sig)
	if err != nil {
		return false, nil, err
	}
	if r.victoryOnly && !end.Victory {
		return false, nil, nil
	}
	if end.MaxCombo < r.threshold {
		return false, nil, nil
	}

	trigger := sessionTrigger(r.config, end, fmt.Sprintf("combo of %d reached", end.MaxCombo)).
		WithMetadata("threshold", r.threshold)
	return true, trigger, nil
}
