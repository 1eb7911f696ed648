package builtin

import (
	"context"
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/rule"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
	signalBuiltin "github.com/endzone-defense/campaign-engine/pkg/signal/builtin"
	"github.com/endzone-defense/campaign-engine/pkg/victory"
	"github.com/sirupsen/logrus"
)

// VictoryTypeRuleID matches won sessions by victory classification.
const VictoryTypeRuleID = "victory_type"

// VictoryTypeRule triggers when a session is won with one of the configured
// victory types. The "types" parameter defaults to every type.
type VictoryTypeRule struct {
	config rule.RuleConfig
	types  map[victory.Type]bool
}

// NewVictoryTypeRule creates the rule and rejects unknown types.
func NewVictoryTypeRule(config rule.RuleConfig) (*VictoryTypeRule, error) {
	names := config.GetStringSlice("types", []string{
		string(victory.TypeNormal),
		string(victory.TypeStageComplete),
		string(victory.TypeSuperBowl),
	})

	types := make(map[victory.Type]bool, len(names))
	for _, name := range names {
		t := victory.Type(name)
		switch t {
		case victory.TypeNormal, victory.TypeStageComplete, victory.TypeSuperBowl:
			types[t] = true
		default:
			return nil, fmt.Errorf("unknown victory type %q", name)
		}
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("victory_type rule %s has no types", config.ID)
	}

	logrus.Infof("creating victory type rule %s with types=%v", config.ID, names)
	return &VictoryTypeRule{config: config, types: types}, nil
}

func (r *VictoryTypeRule) ID() string {
	return r.config.ID
}

func (r *VictoryTypeRule) Name() string {
	return "Victory Type"
}

func (r *VictoryTypeRule) SignalTypes() []string {
	return []string{signalBuiltin.TypeSessionEnd}
}

func (r *VictoryTypeRule) Config() rule.RuleConfig {
	return r.config
}

func (r *VictoryTypeRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	end, err := asSessionEnd(sig)
	if err != nil {
		return false, nil, err
	}
	if !end.Victory || !r.types[victory.Type(end.VictoryType)] {
		return false, nil, nil
	}

	trigger := sessionTrigger(r.config, end, fmt.Sprintf("%s victory on stage %d", end.VictoryType, end.StageID))
	return true, trigger, nil
}
