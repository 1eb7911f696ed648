package builtin

import (
	"context"
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/action"
	"github.com/endzone-defense/campaign-engine/pkg/rule"
	"github.com/endzone-defense/campaign-engine/pkg/service"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

const IncrementStatActionID = "increment_stat"

// IncrementStatAction adds "inc" (default 1) to the platform statistic
// "stat_code" of the triggering player.
type IncrementStatAction struct {
	config   action.ActionConfig
	updater  service.StatisticUpdater
	statCode string
	inc      int
}

func NewIncrementStatAction(config action.ActionConfig, updater service.StatisticUpdater) (*IncrementStatAction, error) {
	statCode := config.GetParameterString("stat_code", "")
	if statCode == "" {
		return nil, fmt.Errorf("%w: increment_stat needs stat_code", action.ErrInvalidConfig)
	}
	return &IncrementStatAction{
		config:   config,
		updater:  updater,
		statCode: statCode,
		inc:      config.GetParameterInt("inc", 1),
	}, nil
}

func (a *IncrementStatAction) ID() string {
	return a.config.ID
}

func (a *IncrementStatAction) Name() string {
	return "Increment Statistic"
}

func (a *IncrementStatAction) Config() action.ActionConfig {
	return a.config
}

func (a *IncrementStatAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if a.updater == nil {
		logrus.Warnf("[TEST MODE] would increment stat %s by %d for user %s", a.statCode, a.inc, trigger.UserID)
		return nil
	}
	if err := a.updater.IncrementStat(ctx, trigger.UserID, a.statCode, float64(a.inc)); err != nil {
		return fmt.Errorf("failed to increment stat: %w", err)
	}
	return nil
}

// Rollback decrements the statistic again.
func (a *IncrementStatAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if a.updater == nil {
		return nil
	}
	return a.updater.IncrementStat(ctx, trigger.UserID, a.statCode, -float64(a.inc))
}
