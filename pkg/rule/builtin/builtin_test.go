package builtin

import (
	"context"
	"testing"
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/engine"
	"github.com/endzone-defense/campaign-engine/pkg/rule"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
	signalBuiltin "github.com/endzone-defense/campaign-engine/pkg/signal/builtin"
	"github.com/endzone-defense/campaign-engine/pkg/victory"
)

func endSignal(vt victory.Type, score, maxCombo int, newHigh bool) *signalBuiltin.SessionEndSignal {
	ended := &engine.SessionEnded{
		SessionID:    "s-1",
		StageID:      2,
		Score:        score,
		MaxCombo:     maxCombo,
		NewHighScore: newHigh,
	}
	if vt != "" {
		ended.Victory = &victory.Record{Type: vt, StageID: 2, Score: score}
	}
	return signalBuiltin.NewSessionEndSignal("player-1", time.Now(), ended, &signal.PlayerContext{UserID: "player-1"})
}

func TestVictoryTypeRule(t *testing.T) {
	tests := []struct {
		name    string
		types   interface{}
		vt      victory.Type
		matched bool
	}{
		{"default matches normal", nil, victory.TypeNormal, true},
		{"default ignores defeat", nil, "", false},
		{"filtered match", []interface{}{"super_bowl"}, victory.TypeSuperBowl, true},
		{"filtered miss", []interface{}{"super_bowl"}, victory.TypeStageComplete, false},
		{"single string", "stage_complete", victory.TypeStageComplete, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]interface{}{}
			if tt.types != nil {
				params["types"] = tt.types
			}
			r, err := NewVictoryTypeRule(rule.RuleConfig{ID: "wins", Enabled: true, Priority: 5, Parameters: params})
			if err != nil {
				t.Fatalf("NewVictoryTypeRule() error = %v", err)
			}

			matched, trigger, err := r.Evaluate(context.Background(), endSignal(tt.vt, 3000, 4, false))
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if matched != tt.matched {
				t.Fatalf("Evaluate() matched = %v, want %v", matched, tt.matched)
			}
			if matched {
				if trigger.RuleID != "wins" || trigger.Priority != 5 {
					t.Errorf("unexpected trigger %+v", trigger)
				}
				if score, _ := trigger.MetadataInt("score"); score != 3000 {
					t.Errorf("Expected score 3000, got %d", score)
				}
				if trigger.MetadataString("victory_type") != string(tt.vt) {
					t.Errorf("Expected victory_type %s, got %s", tt.vt, trigger.MetadataString("victory_type"))
				}
			}
		})
	}
}

func TestVictoryTypeRule_InvalidConfig(t *testing.T) {
	if _, err := NewVictoryTypeRule(rule.RuleConfig{ID: "bad", Parameters: map[string]interface{}{"types": []interface{}{"overtime"}}}); err == nil {
		t.Error("Expected error for unknown victory type")
	}
	if _, err := NewVictoryTypeRule(rule.RuleConfig{ID: "empty", Parameters: map[string]interface{}{"types": []interface{}{}}}); err == nil {
		t.Error("Expected error for empty types")
	}
}

func TestNewHighScoreRule(t *testing.T) {
	r := NewNewHighScoreRule(rule.RuleConfig{ID: "hs", Enabled: true, Parameters: map[string]interface{}{"min_score": 500}})

	tests := []struct {
		name    string
		sig     *signalBuiltin.SessionEndSignal
		matched bool
	}{
		{"new high on victory", endSignal(victory.TypeNormal, 900, 0, true), true},
		{"new high on defeat", endSignal("", 900, 0, true), true},
		{"below minimum", endSignal("", 100, 0, true), false},
		{"not a new high", endSignal(victory.TypeNormal, 900, 0, false), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, _, err := r.Evaluate(context.Background(), tt.sig)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if matched != tt.matched {
				t.Errorf("Evaluate() matched = %v, want %v", matched, tt.matched)
			}
		})
	}
}

func TestComboStreakRule(t *testing.T) {
	r, err := NewComboStreakRule(rule.RuleConfig{ID: "combo", Enabled: true, Parameters: map[string]interface{}{"threshold": 10, "victory_only": true}})
	if err != nil {
		t.Fatalf("NewComboStreakRule() error = %v", err)
	}

	if matched, _, _ := r.Evaluate(context.Background(), endSignal(victory.TypeNormal, 0, 12, false)); !matched {
		t.Error("Expected combo 12 to match threshold 10")
	}
	if matched, _, _ := r.Evaluate(context.Background(), endSignal(victory.TypeNormal, 0, 9, false)); matched {
		t.Error("Expected combo 9 not to match")
	}
	if matched, _, _ := r.Evaluate(context.Background(), endSignal("", 0, 40, false)); matched {
		t.Error("Expected defeat to be ignored with victory_only")
	}

	if _, err := NewComboStreakRule(rule.RuleConfig{ID: "bad", Parameters: map[string]interface{}{"threshold": 0}}); err == nil {
		t.Error("Expected error for zero threshold")
	}
}

func TestRulesRejectOtherSignals(t *testing.T) {
	other := signal.NewBaseSignal("other", "player-1", time.Now(), nil, nil)
	r := NewNewHighScoreRule(rule.RuleConfig{ID: "hs"})
	if _, _, err := r.Evaluate(context.Background(), &other); err == nil {
		t.Error("Expected error for non session-end signal")
	}
}

func TestRegisterBuiltinRules(t *testing.T) {
	RegisterBuiltinRules()

	for _, id := range []string{VictoryTypeRuleID, NewHighScoreRuleID, ComboStreakRuleID} {
		if !rule.IsRegisteredType(id) {
			t.Errorf("Expected rule type %s to be registered", id)
		}
	}

	registry := rule.NewRegistry()
	err := rule.RegisterRules(registry, []rule.RuleConfig{
		{ID: "wins", Type: VictoryTypeRuleID, Enabled: true, Priority: 1},
		{ID: "hs", Type: NewHighScoreRuleID, Enabled: true, Priority: 9},
		{ID: "off", Type: ComboStreakRuleID, Enabled: false},
	})
	if err != nil {
		t.Fatalf("RegisterRules() error = %v", err)
	}
	if registry.Count() != 2 {
		t.Fatalf("Expected 2 rules, got %d", registry.Count())
	}

	triggers, err := rule.NewEngine(registry).Evaluate(context.Background(), endSignal(victory.TypeStageComplete, 1500, 3, true))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(triggers) != 2 {
		t.Fatalf("Expected 2 triggers, got %d", len(triggers))
	}
	if triggers[0].RuleID != "hs" {
		t.Errorf("Expected highest priority trigger first, got %s", triggers[0].RuleID)
	}
}
