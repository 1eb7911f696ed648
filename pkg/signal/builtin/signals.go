package builtin

import (
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/engine"
	"github.com/endzone-defense/campaign-engine/pkg/signal"
)

// TypeSessionEnd is emitted once per finished session, won or lost.
const TypeSessionEnd = "session_end"

// SessionEndSignal describes a finished session after the campaign absorbed it.
type SessionEndSignal struct {
	signal.BaseSignal
	SessionID         string
	StageID           int
	Victory           bool
	VictoryType       string
	Score             int
	MaxCombo          int
	LivesRemaining    int
	NewHighScore      bool
	PreviousHighScore int
	SuperBowlClinched bool
	UnlockedStages    []int
}

// NewSessionEndSignal builds the signal from a session-ended notification.
func NewSessionEndSignal(userID string, timestamp time.Time, ended *engine.SessionEnded, context *signal.PlayerContext) *SessionEndSignal {
	s := &SessionEndSignal{
		SessionID:         ended.SessionID,
		StageID:           ended.StageID,
		Victory:           ended.IsVictory(),
		Score:             ended.Score,
		MaxCombo:          ended.MaxCombo,
		LivesRemaining:    ended.LivesRemaining,
		NewHighScore:      ended.NewHighScore,
		PreviousHighScore: ended.PreviousHighScore,
		SuperBowlClinched: ended.SuperBowlClinched,
		UnlockedStages:    append([]int(nil), ended.UnlockedStages...),
	}
	if ended.Victory != nil {
		s.VictoryType = string(ended.Victory.Type)
	}

	metadata := map[string]interface{}{
		"session_id":          s.SessionID,
		"stage_id":            s.StageID,
		"outcome":             string(ended.Outcome),
		"victory":             s.Victory,
		"victory_type":        s.VictoryType,
		"score":               s.Score,
		"max_combo":           s.MaxCombo,
		"lives_remaining":     s.LivesRemaining,
		"new_high_score":      s.NewHighScore,
		"previous_high_score": s.PreviousHighScore,
		"super_bowl_clinched": s.SuperBowlClinched,
		"unlocked_stages":     s.UnlockedStages,
	}
	s.BaseSignal = signal.NewBaseSignal(TypeSessionEnd, userID, timestamp, metadata, context)
	return s
}
