package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "CountryNames API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the CountryNames geography quiz.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/echo
	getWSEcho, _ := r.NewOperationContext(http.MethodGet, "/ws/echo")
	getWSEcho.SetSummary("WebSocket echo")
	getWSEcho.SetDescription("Upgrades to a WebSocket connection that echoes messages back.")
	getWSEcho.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWSEcho)

	// POST /api/auth/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/auth/register")
	postRegister.SetSummary("Register")
	postRegister.SetDescription("Create an account. Returns a session token.")
	postRegister.AddReqStructure(AuthRequest{})
	postRegister.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRegister)

	// POST /api/auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Exchange credentials for a session token.")
	postLogin.AddReqStructure(AuthRequest{})
	postLogin.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// GET /api/countries
	getCountries, _ := r.NewOperationContext(http.MethodGet, "/api/countries")
	getCountries.SetSummary("List countries")
	getCountries.SetDescription("Returns the reference country set and available continent filters.")
	getCountries.AddRespStructure(CountriesResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getCountries)

	// POST /api/game/start
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/game/start")
	postStart.SetSummary("Start a game")
	postStart.SetDescription("Start a timed session in classic, flags, or capitals mode. Requires Bearer token. Replaces any active game.")
	postStart.AddReqStructure(StartGameRequest{})
	postStart.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postStart.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postStart)

	// POST /api/game/guess
	postGuess, _ := r.NewOperationContext(http.MethodPost, "/api/game/guess")
	postGuess.SetSummary("Submit a guess")
	postGuess.SetDescription("Submit a typed answer for the active session. Requires Bearer token.")
	postGuess.AddReqStructure(GuessRequest{})
	postGuess.AddRespStructure(GuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postGuess)

	// POST /api/game/skip
	postSkip, _ := r.NewOperationContext(http.MethodPost, "/api/game/skip")
	postSkip.SetSummary("Skip the current target")
	postSkip.SetDescription("Skip the current flags/capitals target without crediting it. Requires Bearer token.")
	postSkip.AddRespStructure(GuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSkip.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postSkip)

	// POST /api/game/giveup
	postGiveUp, _ := r.NewOperationContext(http.MethodPost, "/api/game/giveup")
	postGiveUp.SetSummary("Give up")
	postGiveUp.SetDescription("End the active session immediately and score it as-is. Requires Bearer token.")
	postGiveUp.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postGiveUp.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postGiveUp)

	// GET /api/game/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/game/state")
	getState.SetSummary("Get game state")
	getState.SetDescription("Returns the active session snapshot. Requires Bearer token.")
	getState.AddRespStructure(GameStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getState.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getState)

	// GET /api/game/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/game/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of session events. Pass token as query parameter.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/daily
	getDaily, _ := r.NewOperationContext(http.MethodGet, "/api/daily")
	getDaily.SetSummary("Daily dossier")
	getDaily.SetDescription("Returns today's dossier: unlocked clues and the player's progress. Requires Bearer token.")
	getDaily.AddRespStructure(DailyResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getDaily)

	// POST /api/daily/reveal
	postReveal, _ := r.NewOperationContext(http.MethodPost, "/api/daily/reveal")
	postReveal.SetSummary("Reveal next clue")
	postReveal.SetDescription("Unlock the next dossier clue, lowering the score for a correct guess. Requires Bearer token.")
	postReveal.AddRespStructure(DailyResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReveal.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postReveal)

	// POST /api/daily/guess
	postDailyGuess, _ := r.NewOperationContext(http.MethodPost, "/api/daily/guess")
	postDailyGuess.SetSummary("Guess the daily country")
	postDailyGuess.SetDescription("Submit a guess for today's target. Requires Bearer token.")
	postDailyGuess.AddReqStructure(GuessRequest{})
	postDailyGuess.AddRespStructure(DailyGuessResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postDailyGuess.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postDailyGuess)

	// GET /api/me/stats
	getStats, _ := r.NewOperationContext(http.MethodGet, "/api/me/stats")
	getStats.SetSummary("Player stats")
	getStats.SetDescription("Returns cumulative stats, level, rank, and achievements. Requires Bearer token.")
	getStats.AddRespStructure(StatsResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getStats)

	// GET /api/me/misses
	getMisses, _ := r.NewOperationContext(http.MethodGet, "/api/me/misses")
	getMisses.SetSummary("Learning bank")
	getMisses.SetDescription("Returns countries the player has missed, most-missed first. Requires Bearer token.")
	getMisses.AddRespStructure([]MissView{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getMisses)

	// DELETE /api/me/misses/{countryID}
	delMiss, _ := r.NewOperationContext(http.MethodDelete, "/api/me/misses/{countryID}")
	delMiss.SetSummary("Mark as learned")
	delMiss.SetDescription("Remove a country from the learning bank. Requires Bearer token.")
	delMiss.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	delMiss.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(delMiss)

	// GET /api/leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getLeaderboard.SetSummary("Leaderboard")
	getLeaderboard.SetDescription("Returns the global XP ranking.")
	getLeaderboard.AddRespStructure([]LeaderboardEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLeaderboard)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, err := json.Marshal(spec)

	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(data)
	}
}
