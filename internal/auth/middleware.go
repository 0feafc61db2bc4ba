package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "auth.userID"

// UserID returns the authenticated user id stored by RequireAuth, or "" when
// the request was not authenticated.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID returns a context carrying the given user id. Exposed for tests
// and the websocket handshake, which authenticates outside the middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token's user id on the request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.authenticate(r)
		if err != nil {
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// authenticate extracts and verifies the bearer token. Websocket clients
// cannot set headers from the browser, so a token query parameter is
// accepted as a fallback.
func (s *Service) authenticate(r *http.Request) (string, error) {
	token := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimPrefix(h, "Bearer ")
	} else if q := r.URL.Query().Get("token"); q != "" {
		token = q
	}
	if token == "" {
		return "", ErrInvalidToken
	}
	return s.VerifyToken(token)
}
