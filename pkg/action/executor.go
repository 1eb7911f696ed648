package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/rule"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

// Executor runs registered actions for triggers.
type Executor struct {
	registry *Registry
}

// NewExecutor creates an executor over registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry: registry,
	}
}

// Execute runs one action.
func (e *Executor) Execute(ctx context.Context, actionID string, trigger *rule.Trigger, playerCtx *signal.PlayerContext) (*ActionResult, error) {
	results, err := e.ExecuteMultiple(ctx, []string{actionID}, trigger, playerCtx, false)
	if len(results) == 0 {
		return nil, err
	}
	return results[0], err
}

// ExecuteMultiple runs actions in order and stops at the first failure.
// With rollbackOnError the actions that already succeeded are rolled back
// in reverse order.
func (e *Executor) ExecuteMultiple(ctx context.Context, actionIDs []string, trigger *rule.Trigger, playerCtx *signal.PlayerContext, rollbackOnError bool) ([]*ActionResult, error) {
	var results []*ActionResult
	var executed []Action

	fail := func(err error) ([]*ActionResult, error) {
		if rollbackOnError && len(executed) > 0 {
			e.rollback(ctx, executed, trigger, playerCtx)
		}
		return results, err
	}

	for _, actionID := range actionIDs {
		a := e.registry.Get(actionID)
		if a == nil {
			err := fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
			logrus.Errorf("%v", err)
			results = append(results, NewActionError(actionID, err))
			return fail(err)
		}

		logrus.Debugf("executing action %s for trigger %s (user: %s)", actionID, trigger.RuleID, trigger.UserID)
		if err := a.Execute(ctx, trigger, playerCtx); err != nil {
			logrus.Errorf("action %s failed for user %s: %v", actionID, trigger.UserID, err)
			results = append(results, NewActionError(actionID, err))
			return fail(err)
		}

		executed = append(executed, a)
		results = append(results, NewActionResult(actionID))
	}

	return results, nil
}

func (e *Executor) rollback(ctx context.Context, actions []Action, trigger *rule.Trigger, playerCtx *signal.PlayerContext) {
	logrus.Warnf("rolling back %d actions for trigger %s", len(actions), trigger.RuleID)

	for i := len(actions) - 1; i >= 0; i-- {
		a := actions[i]
		err := a.Rollback(ctx, trigger, playerCtx)
		switch {
		case err == nil:
			logrus.Infof("action %s rolled back", a.ID())
		case errors.Is(err, ErrRollbackNotSupported):
			logrus.Warnf("action %s does not support rollback", a.ID())
		default:
			logrus.Errorf("failed to rollback action %s: %v", a.ID(), err)
		}
	}
}

// Registry returns the action registry.
func (e *Executor) Registry() *Registry {
	return e.registry
}
