package stage

// DefaultStages returns the built-in season: a tutorial, seven regular
// season games, three playoff rounds and the super bowl.
func DefaultStages() []Stage {
	return []Stage{
		// Preseason scrimmage, teaches tackling with a short wave count.
		{ID: 1, Name: "Preseason Scrimmage", Difficulty: 1, WaveTarget: 5, MaxLives: 3, IsTutorial: true,
			Opponent: Opponent{Name: "Practice Squad", PrimaryColor: "#9E9E9E", SecondaryColor: "#FFFFFF"}},
		{ID: 2, Name: "Week 1", Difficulty: 1, WaveTarget: 6, MaxLives: 3,
			Opponent: Opponent{Name: "Harbor Gulls", PrimaryColor: "#1565C0", SecondaryColor: "#FFFFFF"}},
		{ID: 3, Name: "Week 3", Difficulty: 2, WaveTarget: 6, MaxLives: 3,
			Opponent: Opponent{Name: "Prairie Bison", PrimaryColor: "#6D4C41", SecondaryColor: "#FFB300"}},
		{ID: 4, Name: "Week 6", Difficulty: 3, WaveTarget: 7, MaxLives: 3,
			Opponent: Opponent{Name: "Canyon Coyotes", PrimaryColor: "#E65100", SecondaryColor: "#212121"}},
		{ID: 5, Name: "Week 9", Difficulty: 4, WaveTarget: 7, MaxLives: 3,
			Opponent: Opponent{Name: "Metro Ironclads", PrimaryColor: "#37474F", SecondaryColor: "#B0BEC5"}},
		{ID: 6, Name: "Week 12", Difficulty: 5, WaveTarget: 8, MaxLives: 3,
			Opponent: Opponent{Name: "Bayou Gators", PrimaryColor: "#2E7D32", SecondaryColor: "#FDD835"}},
		{ID: 7, Name: "Week 15", Difficulty: 6, WaveTarget: 8, MaxLives: 3,
			Opponent: Opponent{Name: "Summit Rams", PrimaryColor: "#283593", SecondaryColor: "#C0CA33"}},
		{ID: 8, Name: "Week 18", Difficulty: 6, WaveTarget: 9, MaxLives: 3,
			Opponent: Opponent{Name: "Lakeshore Storm", PrimaryColor: "#00838F", SecondaryColor: "#ECEFF1"}},
		// Playoffs need cumulative wins on top of the previous stage.
		{ID: 9, Name: "Wild Card", Difficulty: 7, WaveTarget: 9, MaxLives: 3, IsPlayoff: true, RequiredWins: 8,
			Opponent: Opponent{Name: "Desert Scorpions", PrimaryColor: "#BF360C", SecondaryColor: "#FFE082"}},
		{ID: 10, Name: "Divisional Round", Difficulty: 8, WaveTarget: 10, MaxLives: 3, IsPlayoff: true, RequiredWins: 9,
			Opponent: Opponent{Name: "Northern Wolves", PrimaryColor: "#455A64", SecondaryColor: "#FFFFFF"}},
		{ID: 11, Name: "Conference Championship", Difficulty: 9, WaveTarget: 10, MaxLives: 3, IsPlayoff: true, RequiredWins: 11,
			Opponent: Opponent{Name: "Capital Eagles", PrimaryColor: "#4A148C", SecondaryColor: "#FFD600"}},
		{ID: 12, Name: "Super Bowl", Difficulty: 10, WaveTarget: 12, MaxLives: 3, IsPlayoff: true, IsSuperBowl: true, RequiredWins: 12,
			Opponent: Opponent{Name: "Empire Titans", PrimaryColor: "#B71C1C", SecondaryColor: "#FFD700"}},
	}
}

// DefaultCatalog returns a catalog built from DefaultStages.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultStages())
	if err != nil {
		panic("stage: invalid default catalog: " + err.Error())
	}
	return c
}
