// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package campaign

import (
	"fmt"
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/stage"
	"github.com/endzone-defense/campaign-engine/pkg/victory"
	"github.com/sirupsen/logrus"
)

// SessionEnd is one finished session handed to the progression manager.
type SessionEnd struct {
	SessionID string
	StageID   int
	Result    victory.Result
}

// Update describes what a session end changed.
type Update struct {
	Applied           bool  `json:"applied"`
	UnlockedStages    []int `json:"unlockedStages,omitempty"`
	NewHighScore      bool  `json:"newHighScore"`
	PreviousHighScore int   `json:"previousHighScore"`
	SuperBowlClinched bool  `json:"superBowlClinched"`
	Persisted         bool  `json:"persisted"`
}

// VictoryContext returns what the victory classifier needs to know about a
// stage in this campaign.
func VictoryContext(state *State, catalog *stage.Catalog, stageID int) victory.Context {
	return victory.Context{
		FrontierStageID:     catalog.Frontier(state),
		PreviouslyCompleted: state.IsCompleted(stageID),
		SuperBowlWon:        state.SuperBowlWon,
	}
}

// ApplySessionEnd merges a finished session into the campaign state.
// High scores and unlocks are merges, so replaying the same session id is a
// no-op and gamesWon is counted once per session.
func ApplySessionEnd(state *State, catalog *stage.Catalog, end SessionEnd, now time.Time) Update {
	if end.SessionID != "" && state.HasApplied(end.SessionID) {
		logrus.Infof("session %s already applied to campaign of %s, skipping", end.SessionID, state.PlayerID)
		return Update{}
	}

	update := Update{Applied: true}
	update.NewHighScore, update.PreviousHighScore = RecordHighScore(state, end.StageID, end.Result.Score)

	if v := end.Result.Victory; v != nil {
		state.GamesWon++
		state.StagesCompleted = addInt(state.StagesCompleted, end.StageID)

		if st, err := catalog.GetStage(end.StageID); err == nil && st.IsSuperBowl && !state.SuperBowlWon {
			state.SuperBowlWon = true
			update.SuperBowlClinched = true
			logrus.Infof("player %s won the super bowl", state.PlayerID)
		}

		update.UnlockedStages = UnlockEligible(state, catalog)
		logrus.Infof("player %s won stage %d (%s): gamesWon=%d, unlocked=%v",
			state.PlayerID, end.StageID, v.Type, state.GamesWon, update.UnlockedStages)
	} else {
		logrus.Infof("player %s lost stage %d with score %d", state.PlayerID, end.StageID, end.Result.Score)
	}

	if end.SessionID != "" {
		state.AppliedSessions = append(state.AppliedSessions, end.SessionID)
		if n := len(state.AppliedSessions); n > MaxAppliedSessions {
			state.AppliedSessions = state.AppliedSessions[n-MaxAppliedSessions:]
		}
	}
	state.UpdatedAt = now.UTC()

	return update
}

// RecordHighScore keeps the best score for a stage. Returns whether the
// score is a new best and the previous best.
func RecordHighScore(state *State, stageID, score int) (bool, int) {
	if score < 0 {
		score = 0
	}
	prev, ok := state.StageHighScores[stageID]
	if ok && score <= prev {
		return false, prev
	}
	state.StageHighScores[stageID] = score
	logrus.Debugf("new high score for player %s on stage %d: %d (previous %d)", state.PlayerID, stageID, score, prev)
	return true, prev
}

// UnlockEligible unlocks the stage after the frontier while the frontier has
// been completed and the next stage passes its win threshold. It also moves
// the current stage pointer to the frontier. Returns newly unlocked ids.
func UnlockEligible(state *State, catalog *stage.Catalog) []int {
	var unlocked []int
	for {
		frontier := catalog.Frontier(state)
		state.CurrentStageID = frontier

		if !state.IsCompleted(frontier) {
			break
		}
		next, ok := catalog.Next(frontier)
		if !ok {
			break
		}
		if !catalog.IsUnlockEligible(next.ID, state) {
			logrus.Debugf("stage %d held back for player %s: %d/%d wins",
				next.ID, state.PlayerID, state.GamesWon, catalog.RequiredWins(next.ID))
			break
		}

		state.StagesUnlocked = addInt(state.StagesUnlocked, next.ID)
		unlocked = append(unlocked, next.ID)
	}
	return unlocked
}

// CheckUpwardClosed verifies that every unlocked stage other than the first
// has its predecessor unlocked too.
func CheckUpwardClosed(state *State, catalog *stage.Catalog) error {
	first := catalog.First().ID
	if !state.IsUnlocked(first) {
		return fmt.Errorf("first stage %d is not unlocked", first)
	}
	for _, id := range state.StagesUnlocked {
		if id != first && !state.IsUnlocked(id-1) {
			return fmt.Errorf("stage %d is unlocked but stage %d is not", id, id-1)
		}
	}
	return nil
}
