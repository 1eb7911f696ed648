package stage

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// MinDifficulty is the lowest allowed stage difficulty.
	MinDifficulty = 1
	// MaxDifficulty is the highest allowed stage difficulty.
	MaxDifficulty = 10
)

// Catalog is the immutable, ordered set of campaign stages.
// All methods are safe for concurrent use.
type Catalog struct {
	stages []Stage
	byID   map[int]int
}

// NewCatalog validates the stages and returns a catalog ordered by id.
func NewCatalog(stages []Stage) (*Catalog, error) {
	sorted := make([]Stage, len(stages))
	copy(sorted, stages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	if err := Validate(sorted); err != nil {
		return nil, err
	}

	byID := make(map[int]int, len(sorted))
	for i, s := range sorted {
		byID[s.ID] = i
	}

	return &Catalog{stages: sorted, byID: byID}, nil
}

// Validate checks the structural rules of a stage list sorted by id and
// reports every violation found.
func Validate(stages []Stage) error {
	var errs []string

	if len(stages) == 0 {
		return fmt.Errorf("%w: catalog has no stages", ErrInvalidCatalog)
	}

	superBowls := 0
	lastRegularDifficulty := 0
	for i, s := range stages {
		if s.ID != i+1 {
			errs = append(errs, fmt.Sprintf("stage ids must be contiguous from 1: position %d has id %d", i+1, s.ID))
		}
		if s.Difficulty < MinDifficulty || s.Difficulty > MaxDifficulty {
			errs = append(errs, fmt.Sprintf("stage %d difficulty must be in [%d,%d], got %d", s.ID, MinDifficulty, MaxDifficulty, s.Difficulty))
		}
		if s.WaveTarget < 1 {
			errs = append(errs, fmt.Sprintf("stage %d wave_target must be >= 1", s.ID))
		}
		if s.MaxLives < 1 {
			errs = append(errs, fmt.Sprintf("stage %d max_lives must be >= 1", s.ID))
		}
		if s.RequiredWins < 0 {
			errs = append(errs, fmt.Sprintf("stage %d required_wins must be >= 0", s.ID))
		}
		if s.RequiredWins > 0 && !s.IsPlayoff && !s.IsSuperBowl {
			errs = append(errs, fmt.Sprintf("stage %d sets required_wins but is not a playoff stage", s.ID))
		}
		if s.IsSuperBowl {
			superBowls++
		}

		if !s.IsPlayoff && !s.IsSuperBowl {
			if s.Difficulty < lastRegularDifficulty {
				errs = append(errs, fmt.Sprintf("regular season difficulty must not decrease: stage %d has %d after %d", s.ID, s.Difficulty, lastRegularDifficulty))
			}
			lastRegularDifficulty = s.Difficulty
		}
	}

	if superBowls != 1 {
		errs = append(errs, fmt.Sprintf("catalog must have exactly one super bowl stage, found %d", superBowls))
	} else if !stages[len(stages)-1].IsSuperBowl {
		errs = append(errs, "super bowl stage must have the highest id")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(errs, "; "))
	}
	return nil
}

// GetStage returns the stage with the given id.
func (c *Catalog) GetStage(id int) (Stage, error) {
	idx, ok := c.byID[id]
	if !ok {
		return Stage{}, fmt.Errorf("%w: %d", ErrStageNotFound, id)
	}
	return c.stages[idx], nil
}

// ListStages returns all stages ordered by id.
func (c *Catalog) ListStages() []Stage {
	out := make([]Stage, len(c.stages))
	copy(out, c.stages)
	return out
}

// Len returns the number of stages.
func (c *Catalog) Len() int {
	return len(c.stages)
}

// First returns the stage every campaign starts at.
func (c *Catalog) First() Stage {
	return c.stages[0]
}

// Championship returns the super bowl stage.
func (c *Catalog) Championship() Stage {
	return c.stages[len(c.stages)-1]
}

// Next returns the stage following id, if any.
func (c *Catalog) Next(id int) (Stage, bool) {
	s, err := c.GetStage(id + 1)
	if err != nil {
		return Stage{}, false
	}
	return s, true
}

// RequiredWins returns the cumulative wins needed before a stage can be
// unlocked. Non-playoff stages need none.
func (c *Catalog) RequiredWins(id int) int {
	s, err := c.GetStage(id)
	if err != nil {
		return 0
	}
	if !s.IsPlayoff && !s.IsSuperBowl {
		return 0
	}
	return s.RequiredWins
}

// IsUnlockEligible reports whether a stage may be unlocked for the given
// progress. Stage 1 is always eligible. Stage k needs k-1 unlocked and, for
// playoff stages, enough cumulative wins.
func (c *Catalog) IsUnlockEligible(id int, progress Progress) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	if id == c.First().ID {
		return true
	}
	if progress == nil || !progress.IsUnlocked(id-1) {
		return false
	}
	return progress.Wins() >= c.RequiredWins(id)
}

// Frontier returns the highest unlocked stage id.
func (c *Catalog) Frontier(progress Progress) int {
	frontier := c.First().ID
	if progress == nil {
		return frontier
	}
	for _, s := range c.stages {
		if progress.IsUnlocked(s.ID) && s.ID > frontier {
			frontier = s.ID
		}
	}
	return frontier
}
