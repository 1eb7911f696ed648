package session

import (
	"math"

	"github.com/endzone-defense/campaign-engine/pkg/stage"
	"github.com/endzone-defense/campaign-engine/pkg/upgrade"
)

const (
	baseSpawnRate      = 1.0
	spawnPerWave       = 0.12
	spawnPerDifficulty = 0.15
	baseEnemySpeed     = 1.0
	speedPerWave       = 0.08
	speedPerDifficulty = 0.10
)

// Difficulty is the enemy pressure for one wave.
type Difficulty struct {
	SpawnRate  float64 `json:"spawnRate"`
	EnemySpeed float64 `json:"enemySpeed"`
}

// DifficultyAt computes enemy pressure for a wave of a stage. Wave and stage
// difficulty combine multiplicatively and both are non-decreasing inputs.
// Enemy slowdown only scales speed down, never below the cap.
func DifficultyAt(wave, difficulty int, slowdownPct float64) Difficulty {
	wave = max(wave, 1)
	difficulty = min(max(difficulty, stage.MinDifficulty), stage.MaxDifficulty)
	slow := math.Min(math.Max(slowdownPct, 0), upgrade.MaxSlowdownPct) / 100

	w := float64(wave - 1)
	d := float64(difficulty - 1)

	return Difficulty{
		SpawnRate:  round2(baseSpawnRate * (1 + spawnPerWave*w) * (1 + spawnPerDifficulty*d)),
		EnemySpeed: round2(baseEnemySpeed * (1 + speedPerWave*w) * (1 + speedPerDifficulty*d) * (1 - slow)),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
