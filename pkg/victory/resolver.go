package victory

import (
	"errors"
	"fmt"

	"github.com/endzone-defense/campaign-engine/pkg/session"
	"github.com/endzone-defense/campaign-engine/pkg/stage"
)

// Type classifies a victory.
type Type string

const (
	// TypeNormal is a replay of a stage already completed.
	TypeNormal Type = "normal"
	// TypeStageComplete is the first win on the frontier stage.
	TypeStageComplete Type = "stage_complete"
	// TypeSuperBowl is the first championship win.
	TypeSuperBowl Type = "super_bowl"
)

const (
	// LifeBonus is awarded per remaining life on victory.
	LifeBonus = 250
	// ComboBonus is awarded per point of max combo on victory.
	ComboBonus = 10
	// SuperBowlBonusMultiplier scales the bonus for a championship win.
	SuperBowlBonusMultiplier = 2
)

// ErrSessionNotFinished is returned for a session that neither lost all
// lives nor reached its wave target.
var ErrSessionNotFinished = errors.New("session has not finished")

// Record is produced once per winning session.
type Record struct {
	Type         Type `json:"type"`
	StageID      int  `json:"stageId"`
	BonusPoints  int  `json:"bonusPoints"`
	SessionScore int  `json:"sessionScore"`
	Score        int  `json:"score"`
}

// Result is the classification of a finished session. Victory is nil on defeat.
type Result struct {
	StageID int     `json:"stageId"`
	Score   int     `json:"score"`
	Victory *Record `json:"victory,omitempty"`
}

// IsDefeat reports whether the session was lost.
func (r Result) IsDefeat() bool {
	return r.Victory == nil
}

// Context is the campaign knowledge the classifier needs.
type Context struct {
	FrontierStageID     int
	PreviouslyCompleted bool
	SuperBowlWon        bool
}

// Bonus returns the victory bonus for the lives left and best combo. Both
// contributions are non-negative.
func Bonus(livesRemaining, maxCombo int, t Type) int {
	bonus := max(livesRemaining, 0)*LifeBonus + max(maxCombo, 0)*ComboBonus
	if t == TypeSuperBowl {
		bonus *= SuperBowlBonusMultiplier
	}
	return bonus
}

// Classify returns the victory type for a win on st.
func Classify(st stage.Stage, ctx Context) Type {
	switch {
	case st.IsSuperBowl && !ctx.SuperBowlWon:
		return TypeSuperBowl
	case st.ID == ctx.FrontierStageID && !ctx.PreviouslyCompleted:
		return TypeStageComplete
	default:
		return TypeNormal
	}
}

// Resolve classifies a finished session. Losing every life is a defeat
// regardless of wave or score; otherwise passing the wave target is a win.
func Resolve(snap session.Snapshot, st stage.Stage, ctx Context) (Result, error) {
	result := Result{StageID: st.ID, Score: max(snap.Score, 0)}

	if snap.Lives <= 0 {
		return result, nil
	}
	if snap.Wave <= st.WaveTarget {
		return Result{}, fmt.Errorf("%w: wave %d of %d with %d lives", ErrSessionNotFinished, snap.Wave, st.WaveTarget, snap.Lives)
	}

	t := Classify(st, ctx)
	bonus := Bonus(snap.Lives, snap.MaxCombo, t)
	result.Victory = &Record{
		Type:         t,
		StageID:      st.ID,
		BonusPoints:  bonus,
		SessionScore: result.Score,
		Score:        result.Score + bonus,
	}
	result.Score = result.Victory.Score
	return result, nil
}
