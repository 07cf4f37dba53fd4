package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/cfsexam/internal/common"
	"github.com/dmitrijs2005/cfsexam/internal/server/models"
)

type ctxKey int

const userContextKey ctxKey = iota

// authenticate extracts the bearer token, resolves it to a directory user,
// and stores the user in the request context. Identity is re-resolved on
// every request, so a deleted account loses access immediately.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			s.writeError(r.Context(), w, common.ErrUnauthenticated)
			return
		}

		user, err := s.guard.ResolveIdentity(r.Context(), token)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user placed by the middleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// currentUser is the handler-side accessor; the middleware guarantees the
// user is present on protected routes.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		s.writeError(r.Context(), w, common.ErrUnauthenticated)
		return nil, false
	}
	return user, true
}
