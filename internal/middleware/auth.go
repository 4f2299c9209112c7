package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/awarehq/aware-api/internal/database"
	"github.com/awarehq/aware-api/internal/request"
	"github.com/awarehq/aware-api/internal/services/session"
)

// Auth validates the session cookie and attaches the authenticated user to
// the request context. Requests without a valid session get 401.
func Auth(sessions *session.Manager, users database.UserStore, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(session.CookieName)
			if err != nil {
				respondAuthError(w, "Missing session cookie", logger)
				return
			}

			userID, err := sessions.Verify(cookie.Value)
			if err != nil {
				respondAuthError(w, "Invalid or expired session", logger)
				return
			}

			ctx := r.Context()
			user, err := users.GetByID(ctx, userID)
			if err != nil {
				// A valid token for a deleted account is still unauthorized.
				respondAuthError(w, "Invalid or expired session", logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.WithUser(ctx, user)))
		})
	}
}

func respondAuthError(w http.ResponseWriter, message string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed to encode auth error response", zap.Error(err))
	}
}
