package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	leaderboardLimit    = 50
	leaderboardCacheKey = "leaderboard:xp"
	leaderboardCacheTTL = 30 * time.Second
)

// handleLeaderboard serves the global XP ranking. When a Redis client is
// configured the ranking is cached briefly; cache failures fall through to
// SQLite.
func handleLeaderboard(logger *slog.Logger, store Store, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rdb != nil {
			cached, err := rdb.Get(r.Context(), leaderboardCacheKey).Bytes()
			if err == nil {
				var entries []LeaderboardEntry
				if json.Unmarshal(cached, &entries) == nil {
					writeJSON(w, http.StatusOK, entries)
					return
				}
			} else if err != redis.Nil {
				logger.Warn("leaderboard cache read failed", "error", err)
			}
		}

		entries, err := store.Leaderboard(r.Context(), leaderboardLimit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if entries == nil {
			entries = []LeaderboardEntry{}
		}

		if rdb != nil {
			if data, err := json.Marshal(entries); err == nil {
				if err := rdb.Set(r.Context(), leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
					logger.Warn("leaderboard cache write failed", "error", err)
				}
			}
		}

		writeJSON(w, http.StatusOK, entries)
	}
}
