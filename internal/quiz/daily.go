package quiz

import (
	"fmt"
	"time"

	"github.com/oscarbrimelow/CountryNames/internal/geo"
)

// MaxClues is the number of dossier clues per daily target.
const MaxClues = 5

// clueWeights maps clue depth (1-based) to the score awarded for a correct
// guess at that depth.
var clueWeights = [MaxClues]int{1000, 800, 600, 400, 200}

// DateKey returns the calendar date string (YYYY-MM-DD, UTC) that keys
// daily targets and daily status records.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DailyIndex maps a date key to a deterministic index in [0, n). Every
// player must see the same daily target, so this is a fixed function of the
// date string: a 32-bit string hash fed through one LCG step. The arithmetic
// deliberately reproduces the original selection (signed 32-bit hash
// wraparound, LCG a=1664525 c=1013904223 mod 2^32) so historic dates keep
// their targets.
func DailyIndex(dateKey string, n int) int {
	if n <= 0 {
		return 0
	}
	var hash int32
	for _, r := range dateKey {
		hash = (hash << 5) - hash + int32(r)
	}
	seed := uint64(hash)
	if hash < 0 {
		seed = uint64(-int64(hash))
	}

	const (
		a = 1664525
		c = 1013904223
		m = uint64(1) << 32
	)
	seed = (a*seed + c) % m
	return int(seed * uint64(n) / m)
}

// DailyCountry picks the daily target for a date key from the reference set.
func DailyCountry(countries []geo.Country, dateKey string) geo.Country {
	return countries[DailyIndex(dateKey, len(countries))]
}

// ClueWeight returns the score weight for a clue depth, clamped to the
// valid range.
func ClueWeight(depth int) int {
	if depth < 1 {
		depth = 1
	}
	if depth > MaxClues {
		depth = MaxClues
	}
	return clueWeights[depth-1]
}

// Clue is one dossier entry about the daily target.
type Clue struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Weight  int    `json:"weight"`
}

// DailyClues builds the five dossier clues for a target, ordered from
// vaguest to most revealing.
func DailyClues(target geo.Country) []Clue {
	hemisphere := "Northern"
	if target.HasCoords() && target.Coords[1] < 0 {
		hemisphere = "Southern"
	}

	population := "Unknown"
	if target.Population > 0 {
		population = fmt.Sprintf("%.1fM", float64(target.Population)/1e6)
	}

	capitalHint := "???"
	if target.HasCapital() {
		capitalHint = fmt.Sprintf("%c...%c", target.Capital[0], target.Capital[len(target.Capital)-1])
	}

	fact := target.Fact
	if fact == "" {
		fact = "No intelligence available."
	}

	continent := ""
	if len(target.Continents) > 0 {
		continent = target.Continents[0]
	}

	return []Clue{
		{1, "Location", fmt.Sprintf("Located in the %s Hemisphere, within %s.", hemisphere, continent), clueWeights[0]},
		{2, "Demographics", fmt.Sprintf("Population is approximately %s.", population), clueWeights[1]},
		{3, "Capital", fmt.Sprintf("Capital City: %s", capitalHint), clueWeights[2]},
		{4, "Intel", fact, clueWeights[3]},
		{5, "Flag", geo.FlagURL(target.Alpha3), clueWeights[4]},
	}
}

// RevealClue unlocks the next clue, capped at five. Revealing deeper clues
// lowers the score awarded on a correct guess. Returns the new clue depth.
func (r *Round) RevealClue() (int, error) {
	if r.mode != ModeDaily {
		return 0, fmt.Errorf("not a daily round")
	}
	if r.status != StatusPlaying {
		return r.cluesRevealed, ErrNotPlaying
	}
	if r.cluesRevealed < MaxClues {
		r.cluesRevealed++
	}
	return r.cluesRevealed, nil
}

// DailyGuessResult reports a daily guess.
type DailyGuessResult struct {
	// Known is false when the input matched nothing in the reference set;
	// such guesses are rejected without being recorded.
	Known   bool
	Correct bool
	// Name is the canonical name of the guessed country when Known.
	Name string
	// ScoreWeight is the awarded score on a correct guess: the weight of
	// the deepest clue unlocked at guess time.
	ScoreWeight int
}

// SubmitDailyGuess resolves input against the complete reference list by
// exact name/alias match; daily mode has no fuzzy fallback. A wrong but
// valid country is appended to the guess list; a correct one wins the round.
func (r *Round) SubmitDailyGuess(input string) (DailyGuessResult, error) {
	if r.mode != ModeDaily {
		return DailyGuessResult{}, fmt.Errorf("not a daily round")
	}
	if r.status != StatusPlaying {
		return DailyGuessResult{}, ErrNotPlaying
	}

	norm := Normalize(input)
	var match *geo.Country
	for i := range r.reference {
		if matchesCountry(r.reference[i], norm) {
			match = &r.reference[i]
			break
		}
	}
	if match == nil {
		return DailyGuessResult{}, nil
	}

	if match.ID == r.target.ID {
		r.status = StatusWon
		return DailyGuessResult{
			Known:       true,
			Correct:     true,
			Name:        match.Name,
			ScoreWeight: ClueWeight(r.cluesRevealed),
		}, nil
	}

	r.guesses = append(r.guesses, match.Name)
	return DailyGuessResult{Known: true, Name: match.Name}, nil
}
