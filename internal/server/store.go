package server

import (
	"context"
	"errors"

	"github.com/oscarbrimelow/CountryNames/internal/quiz"
)

var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned by CreateUser when the name is already
// registered.
var ErrUsernameTaken = errors.New("username taken")

// User is a registered player.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// DailyStatus is a player's saved progress for one calendar day.
type DailyStatus struct {
	CluesRevealed int      `json:"cluesRevealed"`
	Guesses       []string `json:"guesses"`
	Solved        bool     `json:"solved"`
	Score         int      `json:"score"`
}

// MissEntry is one learning-bank record: a country the player failed to
// find, with how often.
type MissEntry struct {
	CountryID    string `json:"countryId"`
	MissCount    int    `json:"missCount"`
	LastMissedAt string `json:"lastMissedAt"`
}

// LeaderboardEntry is one row of the global XP ranking.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Username    string `json:"username"`
	XP          int    `json:"xp"`
	Level       int    `json:"level"`
	GamesPlayed int    `json:"gamesPlayed"`
}

// ScoreRecord is one finished game written to the score history.
type ScoreRecord struct {
	UserID   string
	Mode     string
	Region   string
	Points   int
	Found    int
	PoolSize int
	Win      bool
}

type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (User, error)
	UserCredentials(ctx context.Context, username string) (userID, passwordHash string, err error)
	CreateSession(ctx context.Context, userID string) (token string, err error)
	UserFromToken(ctx context.Context, token string) (User, error)

	// Stats returns the zero value for users with no games yet.
	Stats(ctx context.Context, userID string) (quiz.UserStats, error)
	SaveStats(ctx context.Context, userID string, stats quiz.UserStats) error
	UnlockedAchievements(ctx context.Context, userID string) (map[string]bool, error)
	AddAchievements(ctx context.Context, userID string, ids []string) error

	RecordScore(ctx context.Context, rec ScoreRecord) error
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)

	DailyStatus(ctx context.Context, userID, dateKey string) (DailyStatus, error)
	SaveDailyStatus(ctx context.Context, userID, dateKey string, st DailyStatus) error

	AddMisses(ctx context.Context, userID string, countryIDs []string) error
	Misses(ctx context.Context, userID string) ([]MissEntry, error)
	ClearMiss(ctx context.Context, userID, countryID string) error
}
