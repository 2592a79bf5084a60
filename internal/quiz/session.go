package quiz

import (
	"sync"
	"time"

	"github.com/oscarbrimelow/CountryNames/internal/geo"
)

// Event is emitted by a session for in-flight happenings a client may want
// to surface (bonus target spawned, time bonus granted, round ended).
type Event struct {
	Type      string `json:"type"`
	CountryID string `json:"countryId,omitempty"`
	Seconds   int    `json:"seconds,omitempty"`
	Points    int    `json:"points,omitempty"`
}

const (
	EventBonusTarget = "bonus_target"
	EventTimeBonus   = "time_bonus"
	EventEnded       = "ended"
)

// SessionConfig describes a new timed session.
type SessionConfig struct {
	ID        string
	UserID    string
	Mode      Mode
	Filters   Filters
	TimeLimit int // seconds

	// OnEnd receives the final result exactly once, on whichever of
	// timeout, give-up, or full clear comes first. It runs on its own
	// goroutine: persistence must never block the next user input.
	OnEnd func(SessionResult)
	// OnEvent is called synchronously during transitions; it must not call
	// back into the session.
	OnEvent func(Event)
}

// Session owns a timed round: the 1 Hz countdown, bonus-time injection, and
// the single end-of-session hand-off to scoring. All transitions are
// serialized behind one mutex; the ticker goroutine is tied to a generation
// counter so a stale timer can never fire into a later session state.
type Session struct {
	mu sync.Mutex

	id        string
	userID    string
	region    string
	timeLimit int
	timeLeft  int
	round     *Round

	gen   int
	ended bool

	onEnd   func(SessionResult)
	onEvent func(Event)
}

// NewSession builds the candidate pool and creates a session in the playing
// state with the timer not yet armed. An empty pool aborts session start.
func NewSession(countries []geo.Country, cfg SessionConfig) (*Session, error) {
	pool, err := BuildPool(countries, cfg.Mode, cfg.Filters)
	if err != nil {
		return nil, err
	}
	round, err := NewRound(cfg.Mode, pool)
	if err != nil {
		return nil, err
	}

	region := cfg.Filters.Continent
	if region == "" {
		region = ContinentAll
	}

	return &Session{
		id:        cfg.ID,
		userID:    cfg.UserID,
		region:    region,
		timeLimit: cfg.TimeLimit,
		timeLeft:  cfg.TimeLimit,
		round:     round,
		onEnd:     cfg.OnEnd,
		onEvent:   cfg.OnEvent,
	}, nil
}

func (s *Session) ID() string     { return s.id }
func (s *Session) UserID() string { return s.userID }

// Start arms the countdown. The ticker goroutine captures the current
// generation; any transition out of playing bumps the generation, which
// makes the goroutine exit on its next tick.
func (s *Session) Start() {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	go func() {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for range t.C {
			if !s.tick(gen) {
				return
			}
		}
	}()
}

// tick decrements the clock. Returns false when the ticker should stop:
// either the generation moved on or the session ended.
func (s *Session) tick(gen int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.round.Status() != StatusPlaying {
		return false
	}

	s.timeLeft--
	if s.timeLeft <= 0 {
		s.timeLeft = 0
		s.endLocked(false)
		return false
	}
	return true
}

// Submit runs one guess through the round engine, applying any time bonus
// and ending the session on a full clear.
func (s *Session) Submit(input string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.round.Submit(input)
	if err != nil {
		return Result{}, err
	}

	if res.TimeBonus > 0 {
		s.timeLeft += res.TimeBonus
		s.emit(Event{Type: EventTimeBonus, Seconds: res.TimeBonus})
	}
	if res.BonusTarget != nil {
		s.emit(Event{Type: EventBonusTarget, CountryID: res.BonusTarget.ID})
	}
	if res.RoundOver {
		s.endLocked(res.Win)
	}
	return res, nil
}

// Skip advances a flags/capitals queue past the current target.
func (s *Session) Skip() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.round.Skip()
	if err != nil {
		return Result{}, err
	}
	if res.RoundOver {
		s.endLocked(false)
	}
	return res, nil
}

// GiveUp ends the session immediately. Effective at once: the generation
// bump drops any in-flight tick, and a second call is a no-op.
func (s *Session) GiveUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endLocked(false)
}

// endLocked finalizes the session once. It snapshots the found set
// explicitly: the result must reflect state at this instant, not whatever
// a late callback might observe afterwards.
func (s *Session) endLocked(win bool) {
	if s.ended {
		return
	}
	s.ended = true
	s.gen++
	s.round.End()

	res := SessionResult{
		Mode:          s.round.Mode(),
		Region:        s.region,
		FoundIDs:      s.round.Found(),
		MissedIDs:     s.round.Missed(),
		PoolSize:      s.round.PoolSize(),
		TimeLeft:      s.timeLeft,
		TimeLimit:     s.timeLimit,
		StreakBonuses: s.round.BonusCollected(),
		Win:           win || len(s.round.Found()) == s.round.PoolSize(),
	}

	points := ComputeScore(len(res.FoundIDs), res.PoolSize, res.Mode, res.TimeLeft, res.StreakBonuses)
	s.emit(Event{Type: EventEnded, Points: points})

	if s.onEnd != nil {
		go s.onEnd(res)
	}
}

func (s *Session) emit(e Event) {
	if s.onEvent != nil {
		s.onEvent(e)
	}
}

// Snapshot is a point-in-time view of a session for state queries.
type Snapshot struct {
	ID             string       `json:"id"`
	Mode           Mode         `json:"mode"`
	Status         Status       `json:"status"`
	Region         string       `json:"region"`
	TimeLeft       int          `json:"timeLeft"`
	TimeLimit      int          `json:"timeLimit"`
	PoolSize       int          `json:"poolSize"`
	FoundIDs       []string     `json:"foundIds"`
	MissedIDs      []string     `json:"missedIds,omitempty"`
	Streak         int          `json:"streak"`
	BonusCollected int          `json:"bonusCollected"`
	BonusTarget    *geo.Country `json:"bonusTarget,omitempty"`
	CurrentTarget  *geo.Country `json:"currentTarget,omitempty"`
}

// Snapshot returns the current state. Missed ids are populated only once
// the round has ended.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:             s.id,
		Mode:           s.round.Mode(),
		Status:         s.round.Status(),
		Region:         s.region,
		TimeLeft:       s.timeLeft,
		TimeLimit:      s.timeLimit,
		PoolSize:       s.round.PoolSize(),
		FoundIDs:       s.round.Found(),
		MissedIDs:      s.round.Missed(),
		Streak:         s.round.Streak(),
		BonusCollected: s.round.BonusCollected(),
		BonusTarget:    s.round.BonusTarget(),
	}
	if s.round.Mode() == ModeFlags || s.round.Mode() == ModeCapitals {
		snap.CurrentTarget = s.round.CurrentTarget()
	}
	return snap
}
