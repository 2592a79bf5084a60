package server

import (
	"context"
	"net/http"
)

type ctxKey int

const ctxKeyUser ctxKey = iota

// authMiddleware resolves the Bearer token to a user and stores it on the
// request context. Requests without a valid session are rejected.
func authMiddleware(store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := userFromRequest(r, store)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or missing session token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFrom(r *http.Request) User {
	return r.Context().Value(ctxKeyUser).(User)
}
