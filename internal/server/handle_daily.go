package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/oscarbrimelow/CountryNames/internal/geo"
	"github.com/oscarbrimelow/CountryNames/internal/quiz"
)

// DailyResponse is the dossier view: only clues the player has unlocked.
type DailyResponse struct {
	Date          string      `json:"date"`
	Clues         []quiz.Clue `json:"clues"`
	CluesRevealed int         `json:"cluesRevealed"`
	MaxClues      int         `json:"maxClues"`
	Guesses       []string    `json:"guesses"`
	Solved        bool        `json:"solved"`
	Score         int         `json:"score"`
	// CountryName is set only once the puzzle is solved.
	CountryName string `json:"countryName,omitempty"`
}

// DailyGuessResponse reports one daily guess.
type DailyGuessResponse struct {
	Known         bool   `json:"known"`
	Correct       bool   `json:"correct"`
	CountryName   string `json:"countryName,omitempty"`
	Score         int    `json:"score,omitempty"`
	CluesRevealed int    `json:"cluesRevealed"`
	GuessCount    int    `json:"guessCount"`
}

type dailyDeps struct {
	logger    *slog.Logger
	store     Store
	countries []geo.Country
	now       func() time.Time
}

// loadDailyStatus returns the saved status for today, or the day-one state.
func loadDailyStatus(r *http.Request, deps dailyDeps, userID, dateKey string) (DailyStatus, error) {
	st, err := deps.store.DailyStatus(r.Context(), userID, dateKey)
	if errors.Is(err, ErrNotFound) {
		return DailyStatus{CluesRevealed: 1, Guesses: []string{}}, nil
	}
	return st, err
}

func dailyResponse(dateKey string, target geo.Country, st DailyStatus) DailyResponse {
	resp := DailyResponse{
		Date:          dateKey,
		Clues:         quiz.DailyClues(target)[:st.CluesRevealed],
		CluesRevealed: st.CluesRevealed,
		MaxClues:      quiz.MaxClues,
		Guesses:       st.Guesses,
		Solved:        st.Solved,
		Score:         st.Score,
	}
	if resp.Guesses == nil {
		resp.Guesses = []string{}
	}
	if st.Solved {
		resp.CountryName = target.Name
	}
	return resp
}

func handleDaily(deps dailyDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)
		dateKey := quiz.DateKey(deps.now())
		target := quiz.DailyCountry(deps.countries, dateKey)

		st, err := loadDailyStatus(r, deps, user.ID, dateKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, dailyResponse(dateKey, target, st))
	}
}

func handleDailyReveal(deps dailyDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)
		dateKey := quiz.DateKey(deps.now())
		target := quiz.DailyCountry(deps.countries, dateKey)

		st, err := loadDailyStatus(r, deps, user.ID, dateKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if st.Solved {
			writeError(w, http.StatusConflict, "daily puzzle already solved")
			return
		}

		if st.CluesRevealed < quiz.MaxClues {
			st.CluesRevealed++
			if err := deps.store.SaveDailyStatus(r.Context(), user.ID, dateKey, st); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		writeJSON(w, http.StatusOK, dailyResponse(dateKey, target, st))
	}
}

func handleDailyGuess(deps dailyDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)
		dateKey := quiz.DateKey(deps.now())
		target := quiz.DailyCountry(deps.countries, dateKey)

		var req GuessRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Guess = strings.TrimSpace(req.Guess)
		if req.Guess == "" {
			writeError(w, http.StatusBadRequest, "guess is required")
			return
		}

		st, err := loadDailyStatus(r, deps, user.ID, dateKey)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// Guessing again after solving replays the stored outcome rather
		// than erroring: refreshed clients resubmit freely.
		if st.Solved {
			writeJSON(w, http.StatusOK, DailyGuessResponse{
				Known:         true,
				Correct:       true,
				CountryName:   target.Name,
				Score:         st.Score,
				CluesRevealed: st.CluesRevealed,
				GuessCount:    len(st.Guesses),
			})
			return
		}

		round := quiz.NewDailyRound(target, deps.countries)
		round.RestoreDaily(st.CluesRevealed, st.Guesses)

		res, err := round.SubmitDailyGuess(req.Guess)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		st.CluesRevealed = round.CluesRevealed()
		st.Guesses = round.Guesses()

		if res.Correct {
			st.Solved = true
			st.Score = res.ScoreWeight
			finishDaily(r, deps, user.ID, st)
		}
		if res.Known {
			if err := deps.store.SaveDailyStatus(r.Context(), user.ID, dateKey, st); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		writeJSON(w, http.StatusOK, DailyGuessResponse{
			Known:         res.Known,
			Correct:       res.Correct,
			CountryName:   res.Name,
			Score:         st.Score,
			CluesRevealed: st.CluesRevealed,
			GuessCount:    len(st.Guesses),
		})
	}
}

// finishDaily folds a solved daily into the player's stats and score
// history. Best effort: a failed write never blocks the win response.
func finishDaily(r *http.Request, deps dailyDeps, userID string, st DailyStatus) {
	ctx := r.Context()

	prior, err := deps.store.Stats(ctx, userID)
	if err != nil {
		deps.logger.Error("loading stats", "user_id", userID, "error", err)
		return
	}
	unlocked, err := deps.store.UnlockedAchievements(ctx, userID)
	if err != nil {
		deps.logger.Error("loading achievements", "user_id", userID, "error", err)
		return
	}

	out := quiz.ComputeScoreAndStats(quiz.SessionResult{
		Mode:       quiz.ModeDaily,
		Win:        true,
		DailyScore: st.Score,
	}, prior, unlocked)

	if err := deps.store.SaveStats(ctx, userID, out.Stats); err != nil {
		deps.logger.Error("saving stats", "user_id", userID, "error", err)
	}
	if len(out.NewlyUnlocked) > 0 {
		if err := deps.store.AddAchievements(ctx, userID, out.NewlyUnlocked); err != nil {
			deps.logger.Error("saving achievements", "user_id", userID, "error", err)
		}
	}
	if err := deps.store.RecordScore(ctx, ScoreRecord{
		UserID:   userID,
		Mode:     string(quiz.ModeDaily),
		Region:   "Daily",
		Points:   out.Points,
		Found:    1,
		PoolSize: 1,
		Win:      true,
	}); err != nil {
		deps.logger.Error("recording score", "user_id", userID, "error", err)
	}
}
