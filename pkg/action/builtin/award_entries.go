package builtin

import (
	"context"
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/action"
	"github.com/endzone-defense/campaign-engine/pkg/rule"
	"github.com/endzone-defense/campaign-engine/pkg/service"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
	"github.com/endzone-defense/campaign-engine/pkg/victory"
	"github.com/sirupsen/logrus"
)

const (
	AwardEntriesActionID = "award_entries"

	DefaultEntriesPerPoints = 1000
	DefaultSuperBowlEntries = 50
)

// AwardEntriesAction credits giveaway entries to the player's ledger.
//
// With a positive "entries" parameter the award is flat. Otherwise a
// championship win gives "super_bowl_entries" and any other trigger gives
// 1 + score / "entries_per_points".
type AwardEntriesAction struct {
	config           action.ActionConfig
	ledger           service.EntriesLedger
	flat             int
	entriesPerPoints int
	superBowlEntries int
}

func NewAwardEntriesAction(config action.ActionConfig, ledger service.EntriesLedger) (*AwardEntriesAction, error) {
	if ledger == nil {
		return nil, fmt.Errorf("%w: award_entries needs an entries ledger", action.ErrInvalidConfig)
	}

	a := &AwardEntriesAction{
		config:           config,
		ledger:           ledger,
		flat:             config.GetParameterInt("entries", 0),
		entriesPerPoints: config.GetParameterInt("entries_per_points", DefaultEntriesPerPoints),
		superBowlEntries: config.GetParameterInt("super_bowl_entries", DefaultSuperBowlEntries),
	}
	if a.entriesPerPoints <= 0 {
		return nil, fmt.Errorf("%w: entries_per_points must be positive", action.ErrInvalidConfig)
	}
	return a, nil
}

func (a *AwardEntriesAction) ID() string {
	return a.config.ID
}

func (a *AwardEntriesAction) Name() string {
	return "Award Giveaway Entries"
}

func (a *AwardEntriesAction) Config() action.ActionConfig {
	return a.config
}

// Entries computes the award for trigger.
func (a *AwardEntriesAction) Entries(trigger *rule.Trigger) int64 {
	if a.flat > 0 {
		return int64(a.flat)
	}
	if trigger.MetadataString("victory_type") == string(victory.TypeSuperBowl) {
		return int64(a.superBowlEntries)
	}
	score, _ := trigger.MetadataInt("score")
	if score < 0 {
		score = 0
	}
	return int64(1 + score/a.entriesPerPoints)
}

func (a *AwardEntriesAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	entries := a.Entries(trigger)
	total, err := a.ledger.Add(ctx, trigger.UserID, a.config.ID, entries)
	if err != nil {
		return fmt.Errorf("failed to award entries: %w", err)
	}

	logrus.Infof("awarded %d entries to %s for %s (total %d)", entries, trigger.UserID, trigger.RuleID, total)
	return nil
}

// Rollback takes back the entries Execute awarded for the same trigger.
func (a *AwardEntriesAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	entries := a.Entries(trigger)
	if _, err := a.ledger.Subtract(ctx, trigger.UserID, a.config.ID, entries); err != nil {
		return fmt.Errorf("failed to take back entries: %w", err)
	}
	return nil
}
