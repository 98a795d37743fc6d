package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/practica-app/practica-api/internal/api/shared"
)

// UserIDHeader is the header carrying the caller's user ID. Authentication
// itself happens upstream; the API gateway strips any client-supplied value
// and injects the verified ID, so this service only parses and forwards it.
const UserIDHeader = "X-User-ID"

// Identity extracts the gateway-injected user ID into the request context.
// Requests without a parseable user ID are rejected before reaching handlers.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID header missing")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid user ID header")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
