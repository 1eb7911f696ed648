// Package builtin provides the actions shipped with the engine.
package builtin

import (
	"github.com/endzone-defense/campaign-engine/pkg/action"
	"github.com/endzone-defense/campaign-engine/pkg/service"
)

// Dependencies are the collaborators built-in actions call. A nil
// EntitlementGranter or StatisticUpdater puts that action in test mode:
// it logs what it would do and succeeds.
type Dependencies struct {
	Ledger             service.EntriesLedger
	EntitlementGranter service.EntitlementGranter
	StatisticUpdater   service.StatisticUpdater
}

// RegisterActions registers the built-in action factories.
func RegisterActions(deps *Dependencies) {
	action.RegisterActionType(AwardEntriesActionID, func(config action.ActionConfig) (action.Action, error) {
		return NewAwardEntriesAction(config, deps.Ledger)
	})

	action.RegisterActionType(GrantPrizeActionID, func(config action.ActionConfig) (action.Action, error) {
		return NewGrantPrizeAction(config, deps.EntitlementGranter)
	})

	action.RegisterActionType(IncrementStatActionID, func(config action.ActionConfig) (action.Action, error) {
		return NewIncrementStatAction(config, deps.StatisticUpdater)
	})
}
