package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oscarbrimelow/CountryNames/internal/database"
	"github.com/oscarbrimelow/CountryNames/internal/geo"
	"github.com/oscarbrimelow/CountryNames/internal/migrations"
	"github.com/oscarbrimelow/CountryNames/internal/quiz"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStore(db)
}

func testRouter(t *testing.T) (*chi.Mux, *SQLiteStore) {
	t.Helper()
	store := setupStore(t)

	countries, err := geo.Load()
	if err != nil {
		t.Fatalf("load countries: %v", err)
	}

	r := chi.NewRouter()
	addRoutes(r, testLogger(), Deps{
		Store:     store,
		Countries: countries,
		TimeLimit: 300,
	}, NewRegistry())
	return r, store
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body, out any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s response: %v", method, path, err)
		}
	}
	return w
}

func registerUser(t *testing.T, r http.Handler, username string) string {
	t.Helper()
	var resp AuthResponse
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		AuthRequest{Username: username, Password: "secret-password"}, &resp)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if resp.Token == "" {
		t.Fatal("register returned no token")
	}
	return resp.Token
}

// waitForStats polls until the async end-of-session persistence lands.
func waitForStats(t *testing.T, store *SQLiteStore, token string, r http.Handler, games int) StatsResponse {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		var resp StatsResponse
		w := doJSON(t, r, http.MethodGet, "/api/me/stats", token, nil, &resp)
		if w.Code != http.StatusOK {
			t.Fatalf("stats: expected 200, got %d", w.Code)
		}
		if resp.Stats.GamesPlayed >= games {
			return resp
		}
		if time.Now().After(deadline) {
			t.Fatalf("stats never reached %d games: %+v", games, resp.Stats)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := testRouter(t)

	registerUser(t, r, "alice")

	// Duplicate username.
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		AuthRequest{Username: "alice", Password: "secret-password"}, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", w.Code)
	}

	// Good login.
	var resp AuthResponse
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		AuthRequest{Username: "Alice", Password: "secret-password"}, &resp)
	if w.Code != http.StatusOK || resp.Token == "" {
		t.Errorf("login: expected 200 with token, got %d", w.Code)
	}

	// Wrong password.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		AuthRequest{Username: "alice", Password: "wrong-password"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login: expected 401, got %d", w.Code)
	}
}

func TestGameRequiresAuth(t *testing.T) {
	r, _ := testRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/game/start", "",
		StartGameRequest{Mode: "classic"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestClassicGameFlow(t *testing.T) {
	r, _ := testRouter(t)
	token := registerUser(t, r, "bob")

	var state GameStateResponse
	w := doJSON(t, r, http.MethodPost, "/api/game/start", token,
		StartGameRequest{Mode: "classic", Continent: "Europe"}, &state)
	if w.Code != http.StatusCreated {
		t.Fatalf("start: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if state.Mode != "classic" || state.Region != "Europe" || state.PoolSize == 0 {
		t.Fatalf("unexpected start state: %+v", state)
	}
	if state.TimeLeft != 300 {
		t.Errorf("timeLeft = %d, want 300", state.TimeLeft)
	}

	var guess GuessResponse
	w = doJSON(t, r, http.MethodPost, "/api/game/guess", token,
		GuessRequest{Guess: "France"}, &guess)
	if w.Code != http.StatusOK {
		t.Fatalf("guess: expected 200, got %d", w.Code)
	}
	if guess.Status != "success" || guess.CountryName != "France" {
		t.Fatalf("guess France = %+v, want success", guess)
	}
	if guess.FoundCount != 1 {
		t.Errorf("foundCount = %d, want 1", guess.FoundCount)
	}

	// Same country again is not a second success.
	w = doJSON(t, r, http.MethodPost, "/api/game/guess", token,
		GuessRequest{Guess: "France"}, &guess)
	if w.Code != http.StatusOK || guess.Status == "success" {
		t.Errorf("repeat guess = %+v, must not re-credit", guess)
	}

	w = doJSON(t, r, http.MethodPost, "/api/game/guess", token,
		GuessRequest{Guess: "zzzzzz"}, &guess)
	if w.Code != http.StatusOK || guess.Status != "fail" {
		t.Errorf("gibberish guess = %+v, want fail", guess)
	}

	// Classic has no skippable target.
	w = doJSON(t, r, http.MethodPost, "/api/game/skip", token, nil, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("classic skip: expected 409, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/game/state", token, nil, &state)
	if w.Code != http.StatusOK {
		t.Fatalf("state: expected 200, got %d", w.Code)
	}
	if len(state.FoundIDs) != 1 {
		t.Errorf("state foundIds = %v, want 1 entry", state.FoundIDs)
	}
}

func TestGiveUpScoresSession(t *testing.T) {
	r, store := testRouter(t)
	token := registerUser(t, r, "carol")

	doJSON(t, r, http.MethodPost, "/api/game/start", token,
		StartGameRequest{Mode: "classic", Continent: "Europe"}, nil)
	var guess GuessResponse
	doJSON(t, r, http.MethodPost, "/api/game/guess", token,
		GuessRequest{Guess: "Spain"}, &guess)
	if guess.Status != "success" {
		t.Fatalf("guess Spain = %+v", guess)
	}

	var state GameStateResponse
	w := doJSON(t, r, http.MethodPost, "/api/game/giveup", token, nil, &state)
	if w.Code != http.StatusOK {
		t.Fatalf("giveup: expected 200, got %d", w.Code)
	}
	if state.Status != "ended" {
		t.Errorf("status = %q, want ended", state.Status)
	}
	if len(state.MissedIDs) != state.PoolSize-1 {
		t.Errorf("missed = %d of pool %d with 1 found", len(state.MissedIDs), state.PoolSize)
	}

	stats := waitForStats(t, store, token, r, 1)
	if stats.Stats.ClassicFound != 1 {
		t.Errorf("classicFound = %d, want 1", stats.Stats.ClassicFound)
	}
	if stats.Stats.XP == 0 {
		t.Error("a found country should earn xp")
	}

	// The missed countries land in the learning bank.
	var misses []MissView
	deadline := time.Now().Add(2 * time.Second)
	for {
		doJSON(t, r, http.MethodGet, "/api/me/misses", token, nil, &misses)
		if len(misses) > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(misses) != state.PoolSize-1 {
		t.Fatalf("learning bank has %d entries, want %d", len(misses), state.PoolSize-1)
	}
	for _, m := range misses {
		if m.Name == "Spain" {
			t.Error("found country must not appear in the learning bank")
		}
	}

	// Mark one as learned.
	w = doJSON(t, r, http.MethodDelete, "/api/me/misses/"+misses[0].CountryID, token, nil, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("clear miss: expected 204, got %d", w.Code)
	}
	var after []MissView
	doJSON(t, r, http.MethodGet, "/api/me/misses", token, nil, &after)
	if len(after) != len(misses)-1 {
		t.Errorf("learning bank has %d entries after clearing, want %d", len(after), len(misses)-1)
	}
}

func TestFlagsGameHidesTargetName(t *testing.T) {
	r, _ := testRouter(t)
	token := registerUser(t, r, "dave")

	var state GameStateResponse
	w := doJSON(t, r, http.MethodPost, "/api/game/start", token,
		StartGameRequest{Mode: "flags", Difficulty: "top25"}, &state)
	if w.Code != http.StatusCreated {
		t.Fatalf("start flags: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if state.CurrentTarget == nil {
		t.Fatal("flags game has no current target")
	}
	if state.CurrentTarget.FlagURL == "" {
		t.Error("flags target should carry a flag url")
	}
	if state.CurrentTarget.Name != "" {
		t.Error("flags target must not reveal the country name")
	}

	var guess GuessResponse
	w = doJSON(t, r, http.MethodPost, "/api/game/skip", token, nil, &guess)
	if w.Code != http.StatusOK {
		t.Fatalf("skip: expected 200, got %d", w.Code)
	}
	if guess.NextTarget == nil || guess.NextTarget.ID == state.CurrentTarget.ID {
		t.Error("skip should advance to a different target")
	}
}

func TestCapitalsGameShowsCountryName(t *testing.T) {
	r, _ := testRouter(t)
	token := registerUser(t, r, "erin")

	var state GameStateResponse
	w := doJSON(t, r, http.MethodPost, "/api/game/start", token,
		StartGameRequest{Mode: "capitals", Difficulty: "top25"}, &state)
	if w.Code != http.StatusCreated {
		t.Fatalf("start capitals: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if state.CurrentTarget == nil || state.CurrentTarget.Name == "" {
		t.Fatal("capitals target should show the country name")
	}
	if state.CurrentTarget.FlagURL != "" {
		t.Error("capitals target should not carry a flag url")
	}
}

func TestStartRejectsBadMode(t *testing.T) {
	r, _ := testRouter(t)
	token := registerUser(t, r, "frank")

	for _, mode := range []string{"", "daily", "bogus"} {
		w := doJSON(t, r, http.MethodPost, "/api/game/start", token,
			StartGameRequest{Mode: mode}, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("mode %q: expected 400, got %d", mode, w.Code)
		}
	}
}

func TestGuessWithoutGame(t *testing.T) {
	r, _ := testRouter(t)
	token := registerUser(t, r, "grace")

	w := doJSON(t, r, http.MethodPost, "/api/game/guess", token,
		GuessRequest{Guess: "France"}, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/api/game/state", token, nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("state: expected 404, got %d", w.Code)
	}
}

func TestStartReplacesActiveGame(t *testing.T) {
	r, _ := testRouter(t)
	token := registerUser(t, r, "henry")

	var first, second GameStateResponse
	doJSON(t, r, http.MethodPost, "/api/game/start", token,
		StartGameRequest{Mode: "classic", Continent: "Europe"}, &first)
	doJSON(t, r, http.MethodPost, "/api/game/start", token,
		StartGameRequest{Mode: "classic", Continent: "Africa"}, &second)

	var state GameStateResponse
	doJSON(t, r, http.MethodGet, "/api/game/state", token, nil, &state)
	if state.SessionID != second.SessionID {
		t.Errorf("active session = %s, want the replacement %s", state.SessionID, second.SessionID)
	}
	if state.Region != "Africa" {
		t.Errorf("region = %q, want Africa", state.Region)
	}
}

func TestDailyFlow(t *testing.T) {
	r, store := testRouter(t)
	token := registerUser(t, r, "iris")

	countries, err := geo.Load()
	if err != nil {
		t.Fatalf("load countries: %v", err)
	}
	target := quiz.DailyCountry(countries, quiz.DateKey(time.Now()))

	var daily DailyResponse
	w := doJSON(t, r, http.MethodGet, "/api/daily", token, nil, &daily)
	if w.Code != http.StatusOK {
		t.Fatalf("daily: expected 200, got %d", w.Code)
	}
	if daily.CluesRevealed != 1 || len(daily.Clues) != 1 {
		t.Fatalf("fresh daily: clues = %d revealed = %d, want 1/1", len(daily.Clues), daily.CluesRevealed)
	}
	if daily.Solved || daily.CountryName != "" {
		t.Error("fresh daily must not reveal the answer")
	}

	// Reveal two more clues.
	doJSON(t, r, http.MethodPost, "/api/daily/reveal", token, nil, &daily)
	w = doJSON(t, r, http.MethodPost, "/api/daily/reveal", token, nil, &daily)
	if w.Code != http.StatusOK || daily.CluesRevealed != 3 {
		t.Fatalf("after two reveals: cluesRevealed = %d, want 3", daily.CluesRevealed)
	}

	// A wrong but real country is recorded.
	wrong := "France"
	if target.Name == wrong {
		wrong = "Germany"
	}
	var guess DailyGuessResponse
	doJSON(t, r, http.MethodPost, "/api/daily/guess", token, GuessRequest{Guess: wrong}, &guess)
	if !guess.Known || guess.Correct || guess.GuessCount != 1 {
		t.Fatalf("wrong guess = %+v", guess)
	}

	// Nonsense is rejected without being recorded.
	doJSON(t, r, http.MethodPost, "/api/daily/guess", token, GuessRequest{Guess: "Atlantis"}, &guess)
	if guess.Known || guess.GuessCount != 1 {
		t.Fatalf("unknown guess = %+v, must not be recorded", guess)
	}

	// The right answer at clue depth 3 scores 600.
	doJSON(t, r, http.MethodPost, "/api/daily/guess", token, GuessRequest{Guess: target.Name}, &guess)
	if !guess.Correct || guess.Score != 600 {
		t.Fatalf("correct guess = %+v, want score 600", guess)
	}

	// Solved state persists and replays idempotently.
	doJSON(t, r, http.MethodGet, "/api/daily", token, nil, &daily)
	if !daily.Solved || daily.CountryName != target.Name || daily.Score != 600 {
		t.Fatalf("solved daily = %+v", daily)
	}
	doJSON(t, r, http.MethodPost, "/api/daily/guess", token, GuessRequest{Guess: target.Name}, &guess)
	if !guess.Correct || guess.Score != 600 {
		t.Fatalf("replayed guess = %+v", guess)
	}
	w = doJSON(t, r, http.MethodPost, "/api/daily/reveal", token, nil, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("reveal after solve: expected 409, got %d", w.Code)
	}

	stats, err := store.Stats(context.Background(), userIDFor(t, store, token))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.DailyWins != 1 {
		t.Errorf("dailyWins = %d, want 1", stats.DailyWins)
	}
}

func userIDFor(t *testing.T, store *SQLiteStore, token string) string {
	t.Helper()
	u, err := store.UserFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("resolving token: %v", err)
	}
	return u.ID
}

func TestLeaderboard(t *testing.T) {
	r, store := testRouter(t)
	tokenA := registerUser(t, r, "zoe")
	tokenB := registerUser(t, r, "yann")

	ctx := context.Background()
	if err := store.SaveStats(ctx, userIDFor(t, store, tokenA), quiz.UserStats{GamesPlayed: 3, XP: 500}); err != nil {
		t.Fatalf("save stats: %v", err)
	}
	if err := store.SaveStats(ctx, userIDFor(t, store, tokenB), quiz.UserStats{GamesPlayed: 9, XP: 1500}); err != nil {
		t.Fatalf("save stats: %v", err)
	}

	var entries []LeaderboardEntry
	w := doJSON(t, r, http.MethodGet, "/api/leaderboard", "", nil, &entries)
	if w.Code != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d", w.Code)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Username != "yann" || entries[0].Rank != 1 {
		t.Errorf("top entry = %+v, want yann at rank 1", entries[0])
	}
	if entries[0].Level != quiz.Level(1500) {
		t.Errorf("level = %d, want %d", entries[0].Level, quiz.Level(1500))
	}
}

func TestCountries(t *testing.T) {
	r, _ := testRouter(t)

	var resp CountriesResponse
	w := doJSON(t, r, http.MethodGet, "/api/countries", "", nil, &resp)
	if w.Code != http.StatusOK {
		t.Fatalf("countries: expected 200, got %d", w.Code)
	}
	if len(resp.Countries) == 0 {
		t.Fatal("no countries returned")
	}
	if len(resp.Continents) == 0 {
		t.Fatal("no continents returned")
	}
	for _, c := range resp.Countries {
		if c.ID == "" || c.Name == "" {
			t.Fatalf("incomplete country entry: %+v", c)
		}
	}
}
