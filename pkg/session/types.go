package session

import (
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/upgrade"
)

// State is the phase of a session.
type State string

const (
	StateActive         State = "active"
	StateUpgradePending State = "upgrade_pending"
	StateEnded          State = "ended"
)

// Outcome is how an ended session finished.
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

// ActionKind is a gameplay action reported by the rendering layer.
type ActionKind string

const (
	ActionTackle       ActionKind = "tackle"
	ActionInterception ActionKind = "interception"
	ActionSack         ActionKind = "sack"
	ActionMissedTackle ActionKind = "missed_tackle"
)

var defaultPoints = map[ActionKind]int{
	ActionTackle:       100,
	ActionInterception: 150,
	ActionSack:         200,
	ActionMissedTackle: 0,
}

// AllActionKinds lists every known action kind.
func AllActionKinds() []ActionKind {
	return []ActionKind{ActionTackle, ActionInterception, ActionSack, ActionMissedTackle}
}

// Validate reports whether k is a known action kind.
func (k ActionKind) Validate() error {
	if _, ok := defaultPoints[k]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, k)
	}
	return nil
}

// IsSuccess reports whether the action extends the combo.
func (k ActionKind) IsSuccess() bool {
	return k != ActionMissedTackle
}

// DefaultPoints returns the base points used when the caller gives none.
func (k ActionKind) DefaultPoints() int {
	return defaultPoints[k]
}

// EventKind identifies a session notification.
type EventKind string

const (
	EventScoreChanged     EventKind = "score_changed"
	EventComboChanged     EventKind = "combo_changed"
	EventFanBonus         EventKind = "fan_bonus"
	EventLifeLost         EventKind = "life_lost"
	EventLifeGained       EventKind = "life_gained"
	EventWaveCleared      EventKind = "wave_cleared"
	EventUpgradeOffered   EventKind = "upgrade_offered"
	EventUpgradeSelected  EventKind = "upgrade_selected"
	EventUpgradeForfeited EventKind = "upgrade_forfeited"
	EventEnded            EventKind = "ended"
)

// Event is emitted to the session listener after each state change.
type Event struct {
	Kind     EventKind      `json:"kind"`
	Points   int            `json:"points,omitempty"`
	Upgrade  upgrade.Type   `json:"upgrade,omitempty"`
	Offer    *upgrade.Offer `json:"offer,omitempty"`
	Snapshot Snapshot       `json:"session"`
}

// Listener receives session events in order.
type Listener func(Event)

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	ID         string            `json:"id"`
	StageID    int               `json:"stageId"`
	State      State             `json:"state"`
	Outcome    Outcome           `json:"outcome,omitempty"`
	Score      int               `json:"score"`
	Lives      int               `json:"lives"`
	Wave       int               `json:"wave"`
	WaveTarget int               `json:"waveTarget"`
	Combo      int               `json:"combo"`
	MaxCombo   int               `json:"maxCombo"`
	FanMeter   float64           `json:"fanMeter"`
	FanBonuses int               `json:"fanBonuses"`
	Modifiers  upgrade.Modifiers `json:"modifiers"`
	Acquired   []upgrade.Type    `json:"acquiredUpgrades"`
	Offer      *upgrade.Offer    `json:"offer,omitempty"`
	Difficulty Difficulty        `json:"difficulty"`
}
