// Package builtin provides the rules shipped with the engine. Each rule
// type is registered under its ID constant.
package builtin

import (
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/rule"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
	signalBuiltin "github.com/endzone-defense/campaign-engine/pkg/signal/builtin"
)

// RegisterBuiltinRules registers all built-in rule types with the factory.
func RegisterBuiltinRules() {
	rule.RegisterRuleType(VictoryTypeRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewVictoryTypeRule(config)
	})

	rule.RegisterRuleType(NewHighScoreRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewNewHighScoreRule(config), nil
	})

	rule.RegisterRuleType(ComboStreakRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewComboStreakRule(config)
	})
}

func asSessionEnd(sig signal.Signal) (*signalBuiltin.SessionEndSignal, error) {
	end, ok := sig.(*signalBuiltin.SessionEndSignal)
	if !ok {
		return nil, fmt.Errorf("expected SessionEndSignal, got %T", sig)
	}
	return end, nil
}

// sessionTrigger copies the session facts every action may need.
func sessionTrigger(cfg rule.RuleConfig, end *signalBuiltin.SessionEndSignal, reason string) *rule.Trigger {
	return rule.NewTrigger(cfg.ID, end.UserID(), reason, cfg.Priority).
		WithMetadata("session_id", end.SessionID).
		WithMetadata("stage_id", end.StageID).
		WithMetadata("score", end.Score).
		WithMetadata("max_combo", end.MaxCombo).
		WithMetadata("victory_type", end.VictoryType)
}
