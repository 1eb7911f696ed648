// Package action runs side effects for rule triggers, such as awarding
// giveaway entries or granting a prize.
package action

import (
	"context"

	"github.com/endzone-defense/campaign-engine/pkg/rule"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
)

// Action performs one side effect for a trigger.
type Action interface {
	ID() string

	Name() string

	// Execute performs the action for trigger.
	Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error

	// Rollback undoes Execute when a later action of the same trigger
	// fails. Actions that cannot be undone return ErrRollbackNotSupported.
	Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error

	Config() ActionConfig
}

// ActionResult is the outcome of one action execution.
type ActionResult struct {
	ActionID string
	Success  bool
	Error    error
}

// NewActionResult creates a successful result.
func NewActionResult(actionID string) *ActionResult {
	return &ActionResult{ActionID: actionID, Success: true}
}

// NewActionError creates a failed result.
func NewActionError(actionID string, err error) *ActionResult {
	return &ActionResult{ActionID: actionID, Error: err}
}
