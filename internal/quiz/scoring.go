package quiz

// Point values are fixed, not configurable per-session.
const (
	pointsPerCountry   = 10
	pointsPerFlagBonus = 50
	pointsPerSecond    = 2
)

// UserStats is the cumulative per-player aggregate. All counters grow
// monotonically; FastestWin is a sticky flag once set.
type UserStats struct {
	GamesPlayed   int  `json:"gamesPlayed"`
	ClassicFound  int  `json:"classicFound"`
	FlagsFound    int  `json:"flagsFound"`
	CapitalsFound int  `json:"capitalsFound"`
	DailyWins     int  `json:"dailyWins"`
	FastestWin    bool `json:"fastestWin"`
	XP            int  `json:"xp"`
}

// SessionResult is the final snapshot of an ended session, handed to the
// scoring engine exactly once.
type SessionResult struct {
	Mode          Mode
	Region        string
	FoundIDs      []string
	MissedIDs     []string
	PoolSize      int
	TimeLeft      int
	TimeLimit     int
	StreakBonuses int
	Win           bool
	// DailyScore carries the clue-weight score for daily sessions; other
	// modes compute points from the formula below.
	DailyScore int
}

// ScoreOutcome is the result of end-of-session scoring.
type ScoreOutcome struct {
	Points        int
	Stats         UserStats
	NewlyUnlocked []string
}

// ComputeScore applies the fixed scoring formula: 10 points per country
// found, 50 per collected streak bonus (classic mode only), and 2 per
// second remaining if and only if the pool was fully cleared.
func ComputeScore(found, poolSize int, mode Mode, timeLeft, streakBonuses int) int {
	points := pointsPerCountry * found
	if mode == ModeClassic {
		points += pointsPerFlagBonus * streakBonuses
	}
	if found == poolSize {
		points += pointsPerSecond * timeLeft
	}
	return points
}

// ComputeScoreAndStats folds a session result into the player's cumulative
// stats and evaluates achievement unlocks against the updated stats. It
// never fails: persistence of the outcome is the caller's (best-effort)
// problem. unlocked is the set of already-held achievement ids; those are
// never re-evaluated or re-reported.
func ComputeScoreAndStats(res SessionResult, prior UserStats, unlocked map[string]bool) ScoreOutcome {
	stats := prior
	stats.GamesPlayed++

	found := len(res.FoundIDs)
	var points int

	switch res.Mode {
	case ModeDaily:
		points = res.DailyScore
		if res.Win {
			stats.DailyWins++
			stats.XP += xpDailyWin
		}
	default:
		points = ComputeScore(found, res.PoolSize, res.Mode, res.TimeLeft, res.StreakBonuses)

		switch res.Mode {
		case ModeClassic:
			stats.ClassicFound += found
			stats.XP += xpClassicFound * found
		case ModeFlags:
			stats.FlagsFound += found
			stats.XP += xpFlagFound * found
		case ModeCapitals:
			stats.CapitalsFound += found
			stats.XP += xpCapitalFound * found
		}

		if found == res.PoolSize {
			stats.XP += xpGameCompleteBonus
			if res.TimeLeft > res.TimeLimit/2 {
				stats.FastestWin = true
			}
		}
	}

	newly := EvaluateAchievements(stats, unlocked)
	stats.XP += xpAchievementUnlock * len(newly)

	return ScoreOutcome{Points: points, Stats: stats, NewlyUnlocked: newly}
}
