package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oscarbrimelow/CountryNames/internal/geo"
	"github.com/oscarbrimelow/CountryNames/internal/quiz"
)

// AchievementView is an achievement definition plus the player's unlock
// state.
type AchievementView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// StatsResponse is the full progression view for the authenticated player.
type StatsResponse struct {
	Username      string            `json:"username"`
	Stats         quiz.UserStats    `json:"stats"`
	Level         int               `json:"level"`
	RankTitle     string            `json:"rankTitle"`
	XPForNext     int               `json:"xpForNextLevel"`
	LevelProgress int               `json:"levelProgress"`
	Achievements  []AchievementView `json:"achievements"`
}

func handleStats(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		stats, err := store.Stats(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		unlocked, err := store.UnlockedAchievements(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		views := make([]AchievementView, 0, len(quiz.Achievements))
		for _, a := range quiz.Achievements {
			views = append(views, AchievementView{
				ID:          a.ID,
				Title:       a.Title,
				Description: a.Description,
				Unlocked:    unlocked[a.ID],
			})
		}

		level := quiz.Level(stats.XP)
		writeJSON(w, http.StatusOK, StatsResponse{
			Username:      user.Username,
			Stats:         stats,
			Level:         level,
			RankTitle:     quiz.RankTitle(level),
			XPForNext:     quiz.XPForNextLevel(level),
			LevelProgress: quiz.LevelProgress(stats.XP),
			Achievements:  views,
		})
	}
}

// MissView joins a learning-bank entry with its country for display.
type MissView struct {
	CountryID    string `json:"countryId"`
	Name         string `json:"name"`
	Capital      string `json:"capital,omitempty"`
	FlagURL      string `json:"flagUrl,omitempty"`
	MissCount    int    `json:"missCount"`
	LastMissedAt string `json:"lastMissedAt"`
}

func handleMisses(store Store, countries []geo.Country) http.HandlerFunc {
	byID := make(map[string]geo.Country, len(countries))
	for _, c := range countries {
		byID[c.ID] = c
	}

	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		entries, err := store.Misses(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		views := make([]MissView, 0, len(entries))
		for _, e := range entries {
			c, ok := byID[e.CountryID]
			if !ok {
				continue
			}
			views = append(views, MissView{
				CountryID:    e.CountryID,
				Name:         c.Name,
				Capital:      c.Capital,
				FlagURL:      geo.FlagURL(c.Alpha3),
				MissCount:    e.MissCount,
				LastMissedAt: e.LastMissedAt,
			})
		}

		writeJSON(w, http.StatusOK, views)
	}
}

// handleClearMiss marks a missed country as learned, removing it from the
// bank.
func handleClearMiss(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)
		countryID := chi.URLParam(r, "countryID")

		err := store.ClearMiss(r.Context(), user.ID, countryID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "country not in the learning bank")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
