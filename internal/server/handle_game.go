package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oscarbrimelow/CountryNames/internal/geo"
	"github.com/oscarbrimelow/CountryNames/internal/quiz"
)

// StartGameRequest selects the mode and pool filters for a new session.
type StartGameRequest struct {
	Mode       string `json:"mode"`
	Continent  string `json:"continent"`
	Difficulty string `json:"difficulty"`
}

// TargetView is what the client may see of a queue target: the flag for
// flags mode, the country name for capitals mode. Never both.
type TargetView struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	FlagURL string `json:"flagUrl,omitempty"`
}

// BonusTargetView names the country a classic-mode streak bonus asks for.
type BonusTargetView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameStateResponse is the client view of a session snapshot.
type GameStateResponse struct {
	SessionID     string           `json:"sessionId"`
	Mode          string           `json:"mode"`
	Status        string           `json:"status"`
	Region        string           `json:"region"`
	TimeLeft      int              `json:"timeLeft"`
	TimeLimit     int              `json:"timeLimit"`
	PoolSize      int              `json:"poolSize"`
	FoundIDs      []string         `json:"foundIds"`
	MissedIDs     []string         `json:"missedIds,omitempty"`
	Streak        int              `json:"streak"`
	BonusTarget   *BonusTargetView `json:"bonusTarget,omitempty"`
	CurrentTarget *TargetView      `json:"currentTarget,omitempty"`
	// ShareText is the paste-ready result summary, set once the game ends.
	ShareText string `json:"shareText,omitempty"`
}

// GuessRequest is one typed answer.
type GuessRequest struct {
	Guess string `json:"guess"`
}

// GuessResponse reports how a guess resolved and the clock after any bonus.
type GuessResponse struct {
	Status      string           `json:"status"`
	CountryID   string           `json:"countryId,omitempty"`
	CountryName string           `json:"countryName,omitempty"`
	TimeBonus   int              `json:"timeBonus,omitempty"`
	BonusTarget *BonusTargetView `json:"bonusTarget,omitempty"`
	RoundOver   bool             `json:"roundOver"`
	Win         bool             `json:"win"`
	TimeLeft    int              `json:"timeLeft"`
	FoundCount  int              `json:"foundCount"`
	NextTarget  *TargetView      `json:"nextTarget,omitempty"`
	ShareText   string           `json:"shareText,omitempty"`
}

// gameDeps bundles what the game handlers need to run and finish sessions.
type gameDeps struct {
	logger    *slog.Logger
	store     Store
	registry  *Registry
	broker    *Broker
	countries []geo.Country
	timeLimit int
}

func handleStartGame(deps gameDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		var req StartGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		mode := quiz.Mode(strings.ToLower(strings.TrimSpace(req.Mode)))
		if !mode.Valid() || mode == quiz.ModeDaily {
			writeError(w, http.StatusBadRequest, "mode must be classic, flags, or capitals")
			return
		}

		filters := quiz.Filters{
			Continent:  strings.TrimSpace(req.Continent),
			Difficulty: quiz.Difficulty(strings.TrimSpace(req.Difficulty)),
		}

		sessionID := uuid.NewString()
		sess, err := quiz.NewSession(deps.countries, quiz.SessionConfig{
			ID:        sessionID,
			UserID:    user.ID,
			Mode:      mode,
			Filters:   filters,
			TimeLimit: deps.timeLimit,
			OnEnd:     finishSession(deps, user.ID, sessionID),
			OnEvent: func(e quiz.Event) {
				deps.broker.Publish(user.ID, e)
			},
		})
		if errors.Is(err, quiz.ErrEmptyPool) {
			writeError(w, http.StatusBadRequest, "no countries match the selected filters")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		deps.registry.Replace(user.ID, sess)
		sess.Start()

		writeJSON(w, http.StatusCreated, stateResponse(sess.Snapshot()))
	}
}

// finishSession persists a finished session: score history, cumulative
// stats, achievement unlocks, and the learning bank of missed countries.
// Runs on the session's own goroutine after the round has ended.
func finishSession(deps gameDeps, userID, sessionID string) func(quiz.SessionResult) {
	return func(res quiz.SessionResult) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		defer deps.registry.Remove(userID, sessionID)

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

		out := quiz.ComputeScoreAndStats(res, prior, unlocked)

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
			Mode:     string(res.Mode),
			Region:   res.Region,
			Points:   out.Points,
			Found:    len(res.FoundIDs),
			PoolSize: res.PoolSize,
			Win:      res.Win,
		}); err != nil {
			deps.logger.Error("recording score", "user_id", userID, "error", err)
		}
		if len(res.MissedIDs) > 0 {
			if err := deps.store.AddMisses(ctx, userID, res.MissedIDs); err != nil {
				deps.logger.Error("recording misses", "user_id", userID, "error", err)
			}
		}

		deps.logger.Info("session finished",
			"user_id", userID,
			"mode", res.Mode,
			"points", out.Points,
			"found", len(res.FoundIDs),
			"pool", res.PoolSize,
			"win", res.Win,
			"unlocked", out.NewlyUnlocked,
		)
	}
}

func handleGuess(deps gameDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		sess := deps.registry.Get(user.ID)
		if sess == nil {
			writeError(w, http.StatusConflict, "no active game")
			return
		}

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

		res, err := sess.Submit(req.Guess)
		if errors.Is(err, quiz.ErrNotPlaying) {
			writeError(w, http.StatusConflict, "game has ended")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		snap := sess.Snapshot()
		resp := guessResponse(res, snap)
		if res.RoundOver {
			resp.ShareText = shareText(deps.countries, snap)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleSkip(deps gameDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		sess := deps.registry.Get(user.ID)
		if sess == nil {
			writeError(w, http.StatusConflict, "no active game")
			return
		}

		res, err := sess.Skip()
		if errors.Is(err, quiz.ErrNotQueued) {
			writeError(w, http.StatusConflict, "this mode has no skippable target")
			return
		}
		if errors.Is(err, quiz.ErrNotPlaying) {
			writeError(w, http.StatusConflict, "game has ended")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		snap := sess.Snapshot()
		resp := guessResponse(res, snap)
		if res.RoundOver {
			resp.ShareText = shareText(deps.countries, snap)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleGiveUp(deps gameDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		sess := deps.registry.Get(user.ID)
		if sess == nil {
			writeError(w, http.StatusConflict, "no active game")
			return
		}

		sess.GiveUp()
		snap := sess.Snapshot()
		resp := stateResponse(snap)
		resp.ShareText = shareText(deps.countries, snap)
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleGameState(deps gameDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := userFrom(r)

		sess := deps.registry.Get(user.ID)
		if sess == nil {
			writeError(w, http.StatusNotFound, "no active game")
			return
		}

		writeJSON(w, http.StatusOK, stateResponse(sess.Snapshot()))
	}
}

func stateResponse(snap quiz.Snapshot) GameStateResponse {
	resp := GameStateResponse{
		SessionID: snap.ID,
		Mode:      string(snap.Mode),
		Status:    string(snap.Status),
		Region:    snap.Region,
		TimeLeft:  snap.TimeLeft,
		TimeLimit: snap.TimeLimit,
		PoolSize:  snap.PoolSize,
		FoundIDs:  snap.FoundIDs,
		MissedIDs: snap.MissedIDs,
		Streak:    snap.Streak,
	}
	if resp.FoundIDs == nil {
		resp.FoundIDs = []string{}
	}
	if snap.BonusTarget != nil {
		resp.BonusTarget = &BonusTargetView{ID: snap.BonusTarget.ID, Name: snap.BonusTarget.Name}
	}
	resp.CurrentTarget = targetView(snap.Mode, snap.CurrentTarget)
	return resp
}

func guessResponse(res quiz.Result, snap quiz.Snapshot) GuessResponse {
	resp := GuessResponse{
		Status:     string(res.Status),
		TimeBonus:  res.TimeBonus,
		RoundOver:  res.RoundOver,
		Win:        res.Win,
		TimeLeft:   snap.TimeLeft,
		FoundCount: len(snap.FoundIDs),
	}
	if res.Country != nil {
		resp.CountryID = res.Country.ID
		resp.CountryName = res.Country.Name
	}
	if res.BonusTarget != nil {
		resp.BonusTarget = &BonusTargetView{ID: res.BonusTarget.ID, Name: res.BonusTarget.Name}
	}
	resp.NextTarget = targetView(snap.Mode, snap.CurrentTarget)
	return resp
}

func shareText(countries []geo.Country, snap quiz.Snapshot) string {
	return quiz.ShareText(countries, snap.FoundIDs, snap.Region, len(snap.FoundIDs), snap.PoolSize)
}

// targetView hides what the player is supposed to produce: flags mode shows
// only the flag image, capitals mode shows only the country name.
func targetView(mode quiz.Mode, target *geo.Country) *TargetView {
	if target == nil {
		return nil
	}
	switch mode {
	case quiz.ModeFlags:
		return &TargetView{ID: target.ID, FlagURL: geo.FlagURL(target.Alpha3)}
	case quiz.ModeCapitals:
		return &TargetView{ID: target.ID, Name: target.Name}
	default:
		return nil
	}
}
