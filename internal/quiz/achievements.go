package quiz

// Achievement pairs an id with its unlock condition over cumulative stats.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Condition   func(UserStats) bool `json:"-"`
}

// Achievements lists every known achievement. Definition order matters:
// when several unlock in the same session, the first in this list is the
// one surfaced as a notification (all are persisted).
var Achievements = []Achievement{
	{
		ID:          "novice_explorer",
		Title:       "Novice Explorer",
		Description: "Find 10 countries in Classic Mode",
		Condition:   func(s UserStats) bool { return s.ClassicFound >= 10 },
	},
	{
		ID:          "world_traveler",
		Title:       "World Traveler",
		Description: "Find 50 countries in Classic Mode",
		Condition:   func(s UserStats) bool { return s.ClassicFound >= 50 },
	},
	{
		ID:          "master_geographer",
		Title:       "Master Geographer",
		Description: "Find 100 countries in Classic Mode",
		Condition:   func(s UserStats) bool { return s.ClassicFound >= 100 },
	},
	{
		ID:          "flag_cadet",
		Title:       "Flag Cadet",
		Description: "Identify 10 flags correctly",
		Condition:   func(s UserStats) bool { return s.FlagsFound >= 10 },
	},
	{
		ID:          "vexillologist",
		Title:       "Vexillologist",
		Description: "Identify 50 flags correctly",
		Condition:   func(s UserStats) bool { return s.FlagsFound >= 50 },
	},
	{
		ID:          "capital_student",
		Title:       "Capital Student",
		Description: "Identify 10 capital cities",
		Condition:   func(s UserStats) bool { return s.CapitalsFound >= 10 },
	},
	{
		ID:          "capital_master",
		Title:       "Capital Master",
		Description: "Identify 50 capital cities",
		Condition:   func(s UserStats) bool { return s.CapitalsFound >= 50 },
	},
	{
		ID:          "dedicated_learner",
		Title:       "Dedicated Learner",
		Description: "Play 10 complete games",
		Condition:   func(s UserStats) bool { return s.GamesPlayed >= 10 },
	},
	{
		ID:          "speed_demon",
		Title:       "Speed Demon",
		Description: "Finish a game with > 50% time remaining",
		Condition:   func(s UserStats) bool { return s.FastestWin },
	},
}

// EvaluateAchievements returns ids newly satisfied by stats, in definition
// order, skipping anything already in unlocked. Unlocks are append-only:
// an id in unlocked is never re-evaluated, so a condition that would no
// longer hold can never revoke it.
func EvaluateAchievements(stats UserStats, unlocked map[string]bool) []string {
	var newly []string
	for _, a := range Achievements {
		if unlocked[a.ID] {
			continue
		}
		if a.Condition(stats) {
			newly = append(newly, a.ID)
		}
	}
	return newly
}

// AchievementByID looks up a definition, or nil for unknown ids.
func AchievementByID(id string) *Achievement {
	for i := range Achievements {
		if Achievements[i].ID == id {
			return &Achievements[i]
		}
	}
	return nil
}
