package quiz

import (
	"errors"
	"math/rand"

	"github.com/oscarbrimelow/CountryNames/internal/geo"
)

// Status is the lifecycle state of a round.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
	// StatusWon is the daily mode's terminal state for a correct guess;
	// every other mode terminates into StatusEnded.
	StatusWon Status = "won"
)

// GuessStatus classifies a submitted guess.
type GuessStatus string

const (
	GuessSuccess GuessStatus = "success"
	// GuessClose covers near-miss spellings and, in queue modes, a valid
	// country that is not the current target.
	GuessClose GuessStatus = "close"
	GuessFail  GuessStatus = "fail"
)

// bonusTimeSeconds is granted when the designated bonus target is found.
const bonusTimeSeconds = 15

// streakInterval: every streakInterval-th consecutive correct answer spawns
// a new bonus target.
const streakInterval = 5

var (
	ErrNotPlaying  = errors.New("round is not in progress")
	ErrNotQueued   = errors.New("operation only applies to flags/capitals rounds")
	ErrDoubleFound = errors.New("country already credited")
)

// Result reports the outcome of a single guess submission.
type Result struct {
	Status      GuessStatus
	Country     *geo.Country // matched country, success only
	TimeBonus   int          // extra seconds granted by a bonus-target hit
	BonusTarget *geo.Country // newly spawned bonus target, if any
	RoundOver   bool
	Win         bool // full clear (classic) or all targets answered
}

// Round is the per-mode state machine. A Round is created at session start
// and discarded at session end; it is not safe for concurrent use. The
// owning Session serializes access.
type Round struct {
	mode   Mode
	status Status

	pool     []geo.Country
	byID     map[string]geo.Country
	found    []string
	foundSet map[string]bool

	// classic
	streak         int
	bonusTarget    *geo.Country
	bonusCollected int

	// flags / capitals
	queue []geo.Country

	// daily
	target        *geo.Country
	reference     []geo.Country
	cluesRevealed int
	guesses       []string
}

// NewRound starts a playing round for classic, flags, or capitals mode over
// the given pool. Queue modes consume the pool front-to-back; the pool is
// expected to be pre-shuffled by BuildPool.
func NewRound(mode Mode, pool []geo.Country) (*Round, error) {
	switch mode {
	case ModeClassic, ModeFlags, ModeCapitals:
	default:
		return nil, errors.New("unsupported round mode")
	}
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	r := &Round{
		mode:     mode,
		status:   StatusPlaying,
		pool:     pool,
		byID:     make(map[string]geo.Country, len(pool)),
		foundSet: make(map[string]bool),
	}
	for _, c := range pool {
		r.byID[c.ID] = c
	}
	if mode == ModeFlags || mode == ModeCapitals {
		r.queue = append([]geo.Country(nil), pool...)
		r.advanceTarget()
	}
	return r, nil
}

// NewDailyRound starts a daily-dossier round: a single fixed target guessed
// against the complete reference list, with one clue already revealed.
func NewDailyRound(target geo.Country, reference []geo.Country) *Round {
	return &Round{
		mode:          ModeDaily,
		status:        StatusPlaying,
		target:        &target,
		reference:     reference,
		cluesRevealed: 1,
	}
}

// RestoreDaily resumes mid-day progress (clues revealed, prior wrong
// guesses) loaded from persistence.
func (r *Round) RestoreDaily(cluesRevealed int, guesses []string) {
	if r.mode != ModeDaily {
		return
	}
	if cluesRevealed > r.cluesRevealed {
		r.cluesRevealed = min(cluesRevealed, MaxClues)
	}
	r.guesses = append([]string(nil), guesses...)
}

func (r *Round) Mode() Mode            { return r.mode }
func (r *Round) Status() Status        { return r.status }
func (r *Round) PoolSize() int         { return len(r.pool) }
func (r *Round) Streak() int           { return r.streak }
func (r *Round) BonusCollected() int   { return r.bonusCollected }
func (r *Round) CluesRevealed() int    { return r.cluesRevealed }
func (r *Round) DailyTarget() *geo.Country { return r.target }

// Found returns the credited country ids in find order.
func (r *Round) Found() []string {
	return append([]string(nil), r.found...)
}

// Guesses returns the recorded incorrect daily guesses in order.
func (r *Round) Guesses() []string {
	return append([]string(nil), r.guesses...)
}

// BonusTarget returns the active classic-mode bonus target, if any.
func (r *Round) BonusTarget() *geo.Country { return r.bonusTarget }

// CurrentTarget returns the queue head for flags/capitals rounds, or nil
// when the queue is exhausted or the mode has no single target.
func (r *Round) CurrentTarget() *geo.Country {
	if len(r.queue) == 0 {
		return nil
	}
	c := r.queue[0]
	return &c
}

// Missed returns pool ids not found. Only meaningful once the round has
// ended; during play it returns nil.
func (r *Round) Missed() []string {
	if r.status != StatusEnded && r.status != StatusWon {
		return nil
	}
	var out []string
	for _, c := range r.pool {
		if !r.foundSet[c.ID] {
			out = append(out, c.ID)
		}
	}
	return out
}

// End terminates a playing round without a win. Terminal states are sticky:
// ending an already-ended round is a no-op.
func (r *Round) End() {
	if r.status == StatusPlaying {
		r.status = StatusEnded
	}
}

// Submit evaluates free-text input against the round state. Classic mode
// searches the whole unfound pool; queue modes accept only the current
// target. A near-miss (or, in queue modes, a valid non-target country)
// reports GuessClose without mutating state.
func (r *Round) Submit(input string) (Result, error) {
	if r.status != StatusPlaying {
		return Result{}, ErrNotPlaying
	}
	switch r.mode {
	case ModeClassic:
		return r.submitClassic(input)
	case ModeFlags, ModeCapitals:
		return r.submitQueued(input)
	default:
		return Result{}, errors.New("daily rounds use SubmitDailyGuess")
	}
}

func (r *Round) submitClassic(input string) (Result, error) {
	norm := Normalize(input)

	for _, c := range r.pool {
		if r.foundSet[c.ID] {
			continue
		}
		if !matchesCountry(c, norm) {
			continue
		}
		res := Result{Status: GuessSuccess}
		if err := r.credit(c.ID); err != nil {
			return Result{}, err
		}
		match := c
		res.Country = &match

		if r.bonusTarget != nil && c.ID == r.bonusTarget.ID {
			res.TimeBonus = bonusTimeSeconds
			r.bonusTarget = nil
			r.bonusCollected++
		}

		r.streak++
		if r.streak%streakInterval == 0 {
			if t := r.pickBonusTarget(c.ID); t != nil {
				r.bonusTarget = t
				res.BonusTarget = t
			}
		}

		if len(r.found) == len(r.pool) {
			r.status = StatusEnded
			r.bonusTarget = nil
			res.RoundOver = true
			res.Win = true
		}
		return res, nil
	}

	if isCloseGuess(input, norm, r.unfound(), r.mode) {
		return Result{Status: GuessClose}, nil
	}
	return Result{Status: GuessFail}, nil
}

func (r *Round) submitQueued(input string) (Result, error) {
	target := r.CurrentTarget()
	if target == nil {
		r.status = StatusEnded
		return Result{Status: GuessFail, RoundOver: true}, nil
	}

	norm := Normalize(input)

	if matchesTarget(*target, norm, r.mode) {
		if err := r.credit(target.ID); err != nil {
			return Result{}, err
		}
		r.queue = r.queue[1:]
		r.advanceTarget()

		res := Result{Status: GuessSuccess, Country: target}
		if len(r.queue) == 0 {
			r.status = StatusEnded
			res.RoundOver = true
			res.Win = len(r.found) == len(r.pool)
		}
		return res, nil
	}

	// A correct answer for a different pool country is reported as close,
	// not fail: the player knows a real country, just not this one.
	for _, c := range r.queue[1:] {
		if matchesTarget(c, norm, r.mode) {
			return Result{Status: GuessClose}, nil
		}
	}

	if isCloseGuess(input, norm, []geo.Country{*target}, r.mode) {
		return Result{Status: GuessClose}, nil
	}
	return Result{Status: GuessFail}, nil
}

// Skip advances past the current target without crediting it. Flags and
// capitals modes only.
func (r *Round) Skip() (Result, error) {
	if r.status != StatusPlaying {
		return Result{}, ErrNotPlaying
	}
	if r.mode != ModeFlags && r.mode != ModeCapitals {
		return Result{}, ErrNotQueued
	}
	if len(r.queue) > 0 {
		r.queue = r.queue[1:]
		r.advanceTarget()
	}
	res := Result{Status: GuessFail}
	if len(r.queue) == 0 {
		r.status = StatusEnded
		res.RoundOver = true
	}
	return res, nil
}

// credit appends id to the found set, rejecting duplicates. A duplicate here
// means a caller bug: the search paths all exclude already-found countries.
func (r *Round) credit(id string) error {
	if r.foundSet[id] {
		return ErrDoubleFound
	}
	r.foundSet[id] = true
	r.found = append(r.found, id)
	return nil
}

// advanceTarget drops queue heads that cannot be played: flags targets
// without coordinates, capitals targets without a capital. The pool builder
// already filters these; this is a safety net for stale data.
func (r *Round) advanceTarget() {
	for len(r.queue) > 0 {
		head := r.queue[0]
		if r.mode == ModeFlags && !head.HasCoords() {
			r.queue = r.queue[1:]
			continue
		}
		if r.mode == ModeCapitals && !head.HasCapital() {
			r.queue = r.queue[1:]
			continue
		}
		return
	}
}

func (r *Round) unfound() []geo.Country {
	var out []geo.Country
	for _, c := range r.pool {
		if !r.foundSet[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func (r *Round) pickBonusTarget(excludeID string) *geo.Country {
	var candidates []geo.Country
	for _, c := range r.pool {
		if !r.foundSet[c.ID] && c.ID != excludeID {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	c := candidates[rand.Intn(len(candidates))]
	return &c
}

// matchesCountry reports an exact match of normalized input against a
// country's name or any alias.
func matchesCountry(c geo.Country, norm string) bool {
	if norm == "" {
		return false
	}
	if Normalize(c.Name) == norm {
		return true
	}
	for _, a := range c.Aliases {
		if Normalize(a) == norm {
			return true
		}
	}
	return false
}

// matchesTarget is the queue-mode exact pass: flags rounds ask for the
// country's name, capitals rounds ask for its capital city.
func matchesTarget(c geo.Country, norm string, mode Mode) bool {
	if mode == ModeCapitals {
		return norm != "" && c.HasCapital() && Normalize(c.Capital) == norm
	}
	return matchesCountry(c, norm)
}

// isCloseGuess applies the bounded edit-distance near-miss policy over the
// given candidates. Raw guesses of length <= 3 never fuzzy-match; capital
// names must be longer than 4 normalized characters to be eligible.
func isCloseGuess(raw, norm string, candidates []geo.Country, mode Mode) bool {
	if len(raw) <= minFuzzyGuessLen-1 {
		return false
	}
	for _, c := range candidates {
		if mode == ModeCapitals {
			capital := Normalize(c.Capital)
			if len(capital) >= minFuzzyCapitalLen && EditDistance(norm, capital) <= closeDistance {
				return true
			}
			continue
		}
		if EditDistance(norm, Normalize(c.Name)) <= closeDistance {
			return true
		}
		for _, a := range c.Aliases {
			if EditDistance(norm, Normalize(a)) <= closeDistance {
				return true
			}
		}
	}
	return false
}
