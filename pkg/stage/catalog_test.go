package stage

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type fakeProgress struct {
	unlocked map[int]bool
	wins     int
}

func (f fakeProgress) IsUnlocked(id int) bool { return f.unlocked[id] }
func (f fakeProgress) Wins() int              { return f.wins }

func unlocked(ids ...int) map[int]bool {
	m := make(map[int]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func TestDefaultCatalog_IsValid(t *testing.T) {
	c := DefaultCatalog()

	if c.Len() != 12 {
		t.Fatalf("Len() = %d, expected 12", c.Len())
	}
	if !c.First().IsTutorial {
		t.Error("first stage should be the tutorial")
	}
	champ := c.Championship()
	if !champ.IsSuperBowl {
		t.Error("Championship() should return the super bowl stage")
	}
	if champ.ID != c.Len() {
		t.Errorf("super bowl id = %d, expected max id %d", champ.ID, c.Len())
	}

	first := c.First()
	if first.WaveTarget != 5 || first.MaxLives != 3 {
		t.Errorf("stage 1 = waves %d lives %d, expected 5 and 3", first.WaveTarget, first.MaxLives)
	}
}

func TestGetStage(t *testing.T) {
	c := DefaultCatalog()

	s, err := c.GetStage(3)
	if err != nil {
		t.Fatalf("GetStage(3) error = %v", err)
	}
	if s.ID != 3 {
		t.Errorf("GetStage(3).ID = %d", s.ID)
	}

	_, err = c.GetStage(99)
	if !errors.Is(err, ErrStageNotFound) {
		t.Errorf("GetStage(99) error = %v, expected ErrStageNotFound", err)
	}
}

func TestListStages_OrderedAndCopied(t *testing.T) {
	c := DefaultCatalog()
	list := c.ListStages()

	for i := 1; i < len(list); i++ {
		if list[i].ID <= list[i-1].ID {
			t.Fatalf("stages not ordered at %d", i)
		}
	}

	list[0].Name = "mutated"
	if c.First().Name == "mutated" {
		t.Error("ListStages() must return a copy")
	}
}

func TestIsUnlockEligible(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		name     string
		stageID  int
		progress Progress
		expected bool
	}{
		{"stage 1 always eligible", 1, fakeProgress{}, true},
		{"stage 1 with nil progress", 1, nil, true},
		{"stage 2 needs stage 1 unlocked", 2, fakeProgress{unlocked: unlocked(1)}, true},
		{"stage 3 without stage 2", 3, fakeProgress{unlocked: unlocked(1)}, false},
		{"playoff below threshold", 9, fakeProgress{unlocked: unlocked(1, 2, 3, 4, 5, 6, 7, 8), wins: 7}, false},
		{"playoff at threshold", 9, fakeProgress{unlocked: unlocked(1, 2, 3, 4, 5, 6, 7, 8), wins: 8}, true},
		{"unknown stage", 42, fakeProgress{unlocked: unlocked(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsUnlockEligible(tt.stageID, tt.progress); got != tt.expected {
				t.Errorf("IsUnlockEligible(%d) = %v, expected %v", tt.stageID, got, tt.expected)
			}
		})
	}
}

func TestRequiredWins(t *testing.T) {
	c := DefaultCatalog()

	if got := c.RequiredWins(2); got != 0 {
		t.Errorf("RequiredWins(2) = %d, expected 0", got)
	}
	if got := c.RequiredWins(9); got != 8 {
		t.Errorf("RequiredWins(9) = %d, expected 8", got)
	}
	if got := c.RequiredWins(100); got != 0 {
		t.Errorf("RequiredWins(100) = %d, expected 0", got)
	}
}

func TestFrontier(t *testing.T) {
	c := DefaultCatalog()

	if got := c.Frontier(nil); got != 1 {
		t.Errorf("Frontier(nil) = %d, expected 1", got)
	}
	if got := c.Frontier(fakeProgress{unlocked: unlocked(1, 2, 3)}); got != 3 {
		t.Errorf("Frontier() = %d, expected 3", got)
	}
}

func TestValidate_Violations(t *testing.T) {
	base := func() []Stage {
		return []Stage{
			{ID: 1, Difficulty: 1, WaveTarget: 3, MaxLives: 3},
			{ID: 2, Difficulty: 2, WaveTarget: 3, MaxLives: 3},
			{ID: 3, Difficulty: 5, WaveTarget: 3, MaxLives: 3, IsPlayoff: true, IsSuperBowl: true, RequiredWins: 2},
		}
	}

	tests := []struct {
		name    string
		mutate  func([]Stage) []Stage
		wantErr string
	}{
		{"valid", func(s []Stage) []Stage { return s }, ""},
		{"empty", func(s []Stage) []Stage { return nil }, "no stages"},
		{"gap in ids", func(s []Stage) []Stage { s[1].ID = 5; return s }, "contiguous"},
		{"difficulty out of range", func(s []Stage) []Stage { s[0].Difficulty = 11; return s }, "difficulty must be in"},
		{"decreasing difficulty", func(s []Stage) []Stage { s[0].Difficulty = 3; return s }, "must not decrease"},
		{"no super bowl", func(s []Stage) []Stage { s[2].IsSuperBowl = false; return s }, "exactly one super bowl"},
		{"super bowl not last", func(s []Stage) []Stage { s[1].IsSuperBowl = true; s[1].IsPlayoff = true; s[2].IsSuperBowl = false; return s }, "highest id"},
		{"wins on regular stage", func(s []Stage) []Stage { s[1].RequiredWins = 1; return s }, "not a playoff stage"},
		{"zero waves", func(s []Stage) []Stage { s[0].WaveTarget = 0; return s }, "wave_target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.mutate(base()))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("error should wrap ErrInvalidCatalog: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, expected to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`
stages:
  - id: 2
    name: Final
    difficulty: 4
    wave_target: 4
    max_lives: 2
    playoff: true
    super_bowl: true
    required_wins: ${TEST_STAGE_WINS:1}
  - id: 1
    name: Opener
    difficulty: 1
    wave_target: 3
    max_lives: 3
    tutorial: true
    opponent:
      name: Gulls
      primary_color: "#000000"
      secondary_color: "#FFFFFF"
`)

	c, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("ParseCatalog() error = %v", err)
	}
	if c.First().Name != "Opener" {
		t.Errorf("First().Name = %s, expected Opener", c.First().Name)
	}
	if c.First().Opponent.Name != "Gulls" {
		t.Errorf("opponent name = %s", c.First().Opponent.Name)
	}
	if c.RequiredWins(2) != 1 {
		t.Errorf("RequiredWins(2) = %d, expected default 1", c.RequiredWins(2))
	}
}

func TestLoadCatalog_ShippedFileMatchesDefaults(t *testing.T) {
	c, err := LoadCatalog("../../config/stages.yaml")
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if !reflect.DeepEqual(c.ListStages(), DefaultStages()) {
		t.Error("config/stages.yaml differs from the built-in season")
	}

	if _, err := LoadCatalog("does-not-exist.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}
