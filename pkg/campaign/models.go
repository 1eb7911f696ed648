// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package campaign

import (
	"sort"
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/stage"
)

// MaxAppliedSessions bounds the session ids remembered for idempotency.
const MaxAppliedSessions = 64

// State is the durable campaign progress of one player.
type State struct {
	PlayerID        string      `json:"playerId"`
	CurrentStageID  int         `json:"currentStageId"`
	StagesUnlocked  []int       `json:"stagesUnlocked"`
	StagesCompleted []int       `json:"stagesCompleted"`
	StageHighScores map[int]int `json:"stageHighScores"`
	GamesWon        int         `json:"gamesWon"`
	SuperBowlWon    bool        `json:"superBowlWon"`
	AppliedSessions []string    `json:"appliedSessions"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// NewState returns the starting campaign for a player: only the first
// stage unlocked and nothing won.
func NewState(playerID string, catalog *stage.Catalog) *State {
	first := catalog.First().ID
	return &State{
		PlayerID:        playerID,
		CurrentStageID:  first,
		StagesUnlocked:  []int{first},
		StagesCompleted: []int{},
		StageHighScores: make(map[int]int),
		AppliedSessions: []string{},
	}
}

// IsUnlocked reports whether a stage is unlocked.
func (s *State) IsUnlocked(stageID int) bool {
	return containsInt(s.StagesUnlocked, stageID)
}

// IsCompleted reports whether a stage has been won at least once.
func (s *State) IsCompleted(stageID int) bool {
	return containsInt(s.StagesCompleted, stageID)
}

// Wins returns the cumulative victories.
func (s *State) Wins() int {
	return s.GamesWon
}

// HighScore returns the best recorded score for a stage.
func (s *State) HighScore(stageID int) (int, bool) {
	score, ok := s.StageHighScores[stageID]
	return score, ok
}

// HasApplied reports whether a session id was already merged.
func (s *State) HasApplied(sessionID string) bool {
	for _, id := range s.AppliedSessions {
		if id == sessionID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := *s
	c.StagesUnlocked = append([]int(nil), s.StagesUnlocked...)
	c.StagesCompleted = append([]int(nil), s.StagesCompleted...)
	c.AppliedSessions = append([]string(nil), s.AppliedSessions...)
	if s.StageHighScores != nil {
		c.StageHighScores = make(map[int]int, len(s.StageHighScores))
		for k, v := range s.StageHighScores {
			c.StageHighScores[k] = v
		}
	}
	return &c
}

// normalize repairs a loaded state so the invariants hold: the first stage
// is unlocked, sets are sorted and unique, and the map is non-nil.
func (s *State) normalize(catalog *stage.Catalog) {
	first := catalog.First().ID
	s.StagesUnlocked = addInt(s.StagesUnlocked, first)
	s.StagesUnlocked = sortedUnique(s.StagesUnlocked)
	s.StagesCompleted = sortedUnique(s.StagesCompleted)
	if s.StageHighScores == nil {
		s.StageHighScores = make(map[int]int)
	}
	if s.AppliedSessions == nil {
		s.AppliedSessions = []string{}
	}
	if s.CurrentStageID == 0 {
		s.CurrentStageID = catalog.Frontier(s)
	}
}

func containsInt(set []int, v int) bool {
	i := sort.SearchInts(set, v)
	return i < len(set) && set[i] == v
}

// addInt inserts v into a sorted set, keeping it sorted.
func addInt(set []int, v int) []int {
	i := sort.SearchInts(set, v)
	if i < len(set) && set[i] == v {
		return set
	}
	set = append(set, 0)
	copy(set[i+1:], set[i:])
	set[i] = v
	return set
}

func sortedUnique(set []int) []int {
	out := make([]int, 0, len(set))
	for _, v := range set {
		out = addInt(out, v)
	}
	return out
}
