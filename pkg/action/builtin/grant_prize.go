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

const GrantPrizeActionID = "grant_prize"

// GrantPrizeAction grants a platform item, typically the championship prize.
type GrantPrizeAction struct {
	config   action.ActionConfig
	granter  service.EntitlementGranter
	itemID   string
	quantity int
}

func NewGrantPrizeAction(config action.ActionConfig, granter service.EntitlementGranter) (*GrantPrizeAction, error) {
	itemID := config.GetParameterString("item_id", "")
	if itemID == "" {
		return nil, fmt.Errorf("%w: grant_prize needs item_id", action.ErrInvalidConfig)
	}
	quantity := config.GetParameterInt("quantity", 1)
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", action.ErrInvalidConfig)
	}

	return &GrantPrizeAction{
		config:   config,
		granter:  granter,
		itemID:   itemID,
		quantity: quantity,
	}, nil
}

func (a *GrantPrizeAction) ID() string {
	return a.config.ID
}

func (a *GrantPrizeAction) Name() string {
	return "Grant Prize"
}

func (a *GrantPrizeAction) Config() action.ActionConfig {
	return a.config
}

func (a *GrantPrizeAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if a.granter == nil {
		logrus.Warnf("[TEST MODE] would grant item %s (quantity: %d) to user %s", a.itemID, a.quantity, trigger.UserID)
		return nil
	}

	if err := a.granter.GrantEntitlement(ctx, trigger.UserID, a.itemID, a.quantity); err != nil {
		return fmt.Errorf("failed to grant prize: %w", err)
	}

	logrus.Infof("granted item %s (quantity: %d) to user %s", a.itemID, a.quantity, trigger.UserID)
	return nil
}

// Rollback is not supported: fulfilled items stay with the player.
func (a *GrantPrizeAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	return action.ErrRollbackNotSupported
}
