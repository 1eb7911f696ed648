package stage

// Opponent describes the team faced in a stage. Presentation only.
type Opponent struct {
	Name           string `yaml:"name" json:"name"`
	PrimaryColor   string `yaml:"primary_color" json:"primaryColor"`
	SecondaryColor string `yaml:"secondary_color" json:"secondaryColor"`
}

// Stage is one unit of campaign content: a single match against an opponent
// with a fixed difficulty, wave target and starting lives.
type Stage struct {
	ID           int      `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Difficulty   int      `yaml:"difficulty" json:"difficulty"`
	WaveTarget   int      `yaml:"wave_target" json:"waveTarget"`
	MaxLives     int      `yaml:"max_lives" json:"maxLives"`
	RequiredWins int      `yaml:"required_wins" json:"requiredWins"`
	IsTutorial   bool     `yaml:"tutorial" json:"isTutorial"`
	IsPlayoff    bool     `yaml:"playoff" json:"isPlayoff"`
	IsSuperBowl  bool     `yaml:"super_bowl" json:"isSuperBowl"`
	Opponent     Opponent `yaml:"opponent" json:"opponent"`
}

// Tier returns a short label for the stage's place in the season.
func (s Stage) Tier() string {
	switch {
	case s.IsSuperBowl:
		return "championship"
	case s.IsPlayoff:
		return "playoff"
	case s.IsTutorial:
		return "tutorial"
	default:
		return "regular_season"
	}
}

// Progress is the read-only view of campaign progress the catalog needs to
// decide eligibility. campaign.State satisfies it.
type Progress interface {
	IsUnlocked(stageID int) bool
	Wins() int
}
