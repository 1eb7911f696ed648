package builtin

import (
	"context"
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/rule"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
	signalBuiltin "github.com/endzone-defense/campaign-engine/pkg/signal/builtin"
)

const (
	// NewHighScoreRuleID matches sessions that beat the stage high score.
	NewHighScoreRuleID = "new_high_score"

	// DefaultMinHighScore ignores trivially low first scores.
	DefaultMinHighScore = 1
)

// NewHighScoreRule triggers on a new per-stage high score of at least
// "min_score". Defeats count: high scores are kept for lost sessions too.
type NewHighScoreRule struct {
	config   rule.RuleConfig
	minScore int
}

func NewNewHighScoreRule(config rule.RuleConfig) *NewHighScoreRule {
	return &NewHighScoreRule{
		config:   config,
		minScore: config.GetInt("min_score", DefaultMinHighScore),
	}
}

func (r *NewHighScoreRule) ID() string {
	return r.config.ID
}

func (r *NewHighScoreRule) Name() string {
	return "New High Score"
}

func (r *NewHighScoreRule) SignalTypes() []string {
	return []string{signalBuiltin.TypeSessionEnd}
}

func (r *NewHighScoreRule) Config() rule.RuleConfig {
	return r.config
}

func (r *NewHighScoreRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	end, err := asSessionEnd(sig)
	if err != nil {
		return false, nil, err
	}
	if !end.NewHighScore || end.Score < r.minScore {
		return false, nil, nil
	}

	trigger := sessionTrigger(r.config, end,
		fmt.Sprintf("new high score %d on stage %d (was %d)", end.Score, end.StageID, end.PreviousHighScore)).
		WithMetadata("previous_high_score", end.PreviousHighScore)
	return true, trigger, nil
}
