package quiz

import "math"

// XP awards per action.
const (
	xpClassicFound      = 10
	xpFlagFound         = 15
	xpCapitalFound      = 20
	xpDailyWin          = 100
	xpAchievementUnlock = 200
	xpGameCompleteBonus = 500
)

// Level converts total XP to a level: floor(sqrt(xp/100)) + 1, so level L
// starts at 100*(L-1)^2 XP.
func Level(xp int) int {
	if xp < 0 {
		return 1
	}
	return int(math.Sqrt(float64(xp)/100)) + 1
}

// XPForNextLevel returns the total XP at which the next level begins.
func XPForNextLevel(level int) int {
	return 100 * level * level
}

// LevelProgress returns the percentage (0-100) of progress through the
// current level.
func LevelProgress(xp int) int {
	level := Level(xp)
	floor := 100 * (level - 1) * (level - 1)
	ceil := XPForNextLevel(level)

	span := ceil - floor
	if span <= 0 {
		return 0
	}
	pct := (xp - floor) * 100 / span
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// RankTitle maps a level to its display title.
func RankTitle(level int) string {
	switch {
	case level >= 50:
		return "Master Cartographer"
	case level >= 40:
		return "Global Legend"
	case level >= 30:
		return "World Expert"
	case level >= 20:
		return "Seasoned Traveler"
	case level >= 10:
		return "Explorer"
	case level >= 5:
		return "Adventurer"
	default:
		return "Novice"
	}
}
