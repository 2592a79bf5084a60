package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/oscarbrimelow/CountryNames/internal/quiz"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) CreateUser(ctx context.Context, username, passwordHash string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash)
		VALUES (?, ?)
		RETURNING id, username
	`, username, passwordHash).Scan(&u.ID, &u.Username)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return User{}, ErrUsernameTaken
	}
	return u, err
}

func (s *SQLiteStore) UserCredentials(ctx context.Context, username string) (string, string, error) {
	var userID, passwordHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, password_hash FROM users WHERE username = ?
	`, username).Scan(&userID, &passwordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return userID, passwordHash, err
}

func (s *SQLiteStore) CreateSession(ctx context.Context, userID string) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sessions (user_id)
		VALUES (?)
		RETURNING id
	`, userID).Scan(&token)
	return token, err
}

func (s *SQLiteStore) UserFromToken(ctx context.Context, token string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ?
	`, token).Scan(&u.ID, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, errNoSession
	}
	return u, err
}

func (s *SQLiteStore) Stats(ctx context.Context, userID string) (quiz.UserStats, error) {
	var st quiz.UserStats
	var fastest int
	err := s.db.QueryRowContext(ctx, `
		SELECT games_played, classic_found, flags_found, capitals_found,
		       daily_wins, fastest_win, xp
		FROM user_stats WHERE user_id = ?
	`, userID).Scan(&st.GamesPlayed, &st.ClassicFound, &st.FlagsFound,
		&st.CapitalsFound, &st.DailyWins, &fastest, &st.XP)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.UserStats{}, nil
	}
	st.FastestWin = fastest != 0
	return st, err
}

func (s *SQLiteStore) SaveStats(ctx context.Context, userID string, st quiz.UserStats) error {
	fastest := 0
	if st.FastestWin {
		fastest = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_stats (user_id, games_played, classic_found, flags_found,
		                        capitals_found, daily_wins, fastest_win, xp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			games_played = excluded.games_played,
			classic_found = excluded.classic_found,
			flags_found = excluded.flags_found,
			capitals_found = excluded.capitals_found,
			daily_wins = excluded.daily_wins,
			fastest_win = excluded.fastest_win,
			xp = excluded.xp
	`, userID, st.GamesPlayed, st.ClassicFound, st.FlagsFound,
		st.CapitalsFound, st.DailyWins, fastest, st.XP)
	return err
}

func (s *SQLiteStore) UnlockedAchievements(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT achievement_id FROM user_achievements WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	unlocked := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		unlocked[id] = true
	}
	return unlocked, rows.Err()
}

func (s *SQLiteStore) AddAchievements(ctx context.Context, userID string, ids []string) error {
	for _, id := range ids {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO user_achievements (user_id, achievement_id)
			VALUES (?, ?)
			ON CONFLICT (user_id, achievement_id) DO NOTHING
		`, userID, id)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) RecordScore(ctx context.Context, rec ScoreRecord) error {
	win := 0
	if rec.Win {
		win = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (user_id, mode, region, points, found, pool_size, win)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.UserID, rec.Mode, rec.Region, rec.Points, rec.Found, rec.PoolSize, win)
	return err
}

func (s *SQLiteStore) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.username, st.xp, st.games_played
		FROM user_stats st
		JOIN users u ON u.id = st.user_id
		ORDER BY st.xp DESC, u.username
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.XP, &e.GamesPlayed); err != nil {
			return nil, err
		}
		e.Rank = len(entries) + 1
		e.Level = quiz.Level(e.XP)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) DailyStatus(ctx context.Context, userID, dateKey string) (DailyStatus, error) {
	var st DailyStatus
	var guessesJSON string
	var solved int
	err := s.db.QueryRowContext(ctx, `
		SELECT clues_revealed, guesses, solved, score
		FROM daily_results
		WHERE user_id = ? AND date_key = ?
	`, userID, dateKey).Scan(&st.CluesRevealed, &guessesJSON, &solved, &st.Score)
	if errors.Is(err, sql.ErrNoRows) {
		return DailyStatus{}, ErrNotFound
	}
	if err != nil {
		return DailyStatus{}, err
	}
	st.Solved = solved != 0
	if err := json.Unmarshal([]byte(guessesJSON), &st.Guesses); err != nil {
		return DailyStatus{}, err
	}
	return st, nil
}

func (s *SQLiteStore) SaveDailyStatus(ctx context.Context, userID, dateKey string, st DailyStatus) error {
	guesses := st.Guesses
	if guesses == nil {
		guesses = []string{}
	}
	guessesJSON, err := json.Marshal(guesses)
	if err != nil {
		return err
	}
	solved := 0
	if st.Solved {
		solved = 1
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO daily_results (user_id, date_key, clues_revealed, guesses, solved, score)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date_key) DO UPDATE SET
			clues_revealed = excluded.clues_revealed,
			guesses = excluded.guesses,
			solved = excluded.solved,
			score = excluded.score
	`, userID, dateKey, st.CluesRevealed, string(guessesJSON), solved, st.Score)
	return err
}

func (s *SQLiteStore) AddMisses(ctx context.Context, userID string, countryIDs []string) error {
	for _, id := range countryIDs {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO misses (user_id, country_id)
			VALUES (?, ?)
			ON CONFLICT (user_id, country_id) DO UPDATE SET
				miss_count = miss_count + 1,
				last_missed_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		`, userID, id)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Misses(ctx context.Context, userID string) ([]MissEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT country_id, miss_count, last_missed_at
		FROM misses
		WHERE user_id = ?
		ORDER BY miss_count DESC, last_missed_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []MissEntry
	for rows.Next() {
		var e MissEntry
		if err := rows.Scan(&e.CountryID, &e.MissCount, &e.LastMissedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) ClearMiss(ctx context.Context, userID, countryID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM misses WHERE user_id = ? AND country_id = ?
	`, userID, countryID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
