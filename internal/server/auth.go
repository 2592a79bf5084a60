package server

import (
	"errors"
	"net/http"
	"strings"
)

var errNoSession = errors.New("no valid session")

func userFromRequest(r *http.Request, store Store) (User, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return User{}, errNoSession
	}
	return store.UserFromToken(r.Context(), token)
}
