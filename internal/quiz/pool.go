package quiz

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/oscarbrimelow/CountryNames/internal/geo"
)

// Mode identifies a game mode.
type Mode string

const (
	ModeClassic  Mode = "classic"
	ModeFlags    Mode = "flags"
	ModeCapitals Mode = "capitals"
	ModeDaily    Mode = "daily"
)

// Valid reports whether m is a playable mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeClassic, ModeFlags, ModeCapitals, ModeDaily:
		return true
	}
	return false
}

// Difficulty selects the candidate pool for queue-based modes.
type Difficulty string

const (
	// DifficultyContinent filters by the continent in Filters.Continent.
	DifficultyContinent Difficulty = "continent"
	// DifficultyTop25 and DifficultyTop50 take the most populous countries.
	DifficultyTop25 Difficulty = "top25"
	DifficultyTop50 Difficulty = "top50"
)

// Filters narrows the reference set for a session.
type Filters struct {
	Continent  string // continent tag, or "All"
	Difficulty Difficulty
}

// ContinentAll matches every country.
const ContinentAll = "All"

// ErrEmptyPool is returned when filtering leaves no playable candidates.
// It is fatal to session start: the caller must abort back to idle rather
// than start an empty round.
var ErrEmptyPool = errors.New("no countries match the selected filters")

// BuildPool derives the in-scope candidate list for a session. The result
// is shuffled for queue-based modes (flags/capitals); classic treats the
// pool as a set, so its order does not matter.
func BuildPool(countries []geo.Country, mode Mode, f Filters) ([]geo.Country, error) {
	var pool []geo.Country

	switch mode {
	case ModeClassic:
		pool = filterContinent(countries, f.Continent)

	case ModeFlags, ModeCapitals:
		switch f.Difficulty {
		case DifficultyTop25:
			pool = topByPopulation(countries, 25)
		case DifficultyTop50:
			pool = topByPopulation(countries, 50)
		default:
			pool = filterContinent(countries, f.Continent)
		}

		// Flags needs a locatable target; capitals needs a capital to ask for.
		kept := pool[:0:len(pool)]
		for _, c := range pool {
			if mode == ModeFlags && !c.HasCoords() {
				continue
			}
			if mode == ModeCapitals && !c.HasCapital() {
				continue
			}
			kept = append(kept, c)
		}
		pool = kept
		shuffle(pool)

	default:
		return nil, errors.New("mode does not use a candidate pool")
	}

	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	return pool, nil
}

func filterContinent(countries []geo.Country, continent string) []geo.Country {
	if continent == "" || continent == ContinentAll {
		return append([]geo.Country(nil), countries...)
	}
	var out []geo.Country
	for _, c := range countries {
		if c.InContinent(continent) {
			out = append(out, c)
		}
	}
	return out
}

// topByPopulation returns the n most populous countries. Countries without
// a population figure are excluded; fewer than n matches yields a shorter
// pool, never padding.
func topByPopulation(countries []geo.Country, n int) []geo.Country {
	var out []geo.Country
	for _, c := range countries {
		if c.Population > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Population > out[j].Population
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func shuffle(pool []geo.Country) {
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
}
