package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// contextKey is a private type to avoid context key collisions.
type contextKey string

const userIDContextKey = contextKey("userID")

// AuthMiddleware resolves the bearer credential into a caller identity.
// A missing or malformed Authorization header is 401; a token that fails
// verification (bad signature, expired, garbage) is 403. On success the
// caller's user ID is attached to the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.respondWithError(w, http.StatusUnauthorized, "Authorization token required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			h.respondWithError(w, http.StatusUnauthorized, "Authorization token required")
			return
		}
		tokenString := parts[1]

		token, err := h.tokenService.ValidateToken(tokenString)
		if err != nil {
			h.respondWithError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		userID, err := h.tokenService.GetUserIDFromToken(token)
		if err != nil {
			h.respondWithError(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerID extracts the authenticated user ID placed in the context by
// AuthMiddleware.
func callerID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(userIDContextKey).(uuid.UUID)
	return userID, ok
}
