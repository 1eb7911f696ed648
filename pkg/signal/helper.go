package signal

import "github.com/endzone-defense/campaign-engine/pkg/campaign"

// BuildPlayerContext wraps a campaign snapshot. SessionInfo summarizes the
// campaign so rules can read it without touching the state type.
func BuildPlayerContext(userID, namespace string, state *campaign.State) *PlayerContext {
	playerContext := &PlayerContext{
		UserID:      userID,
		Campaign:    state,
		Namespace:   namespace,
		SessionInfo: make(map[string]interface{}),
	}
	if state == nil {
		return playerContext
	}

	playerContext.SessionInfo["games_won"] = state.GamesWon
	playerContext.SessionInfo["current_stage"] = state.CurrentStageID
	playerContext.SessionInfo["stages_unlocked"] = len(state.StagesUnlocked)
	playerContext.SessionInfo["super_bowl_won"] = state.SuperBowlWon
	return playerContext
}
