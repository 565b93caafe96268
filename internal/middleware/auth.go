package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/snuggle-shop/snuggle/internal/domain"
)

type contextKey string

const (
	// UserContextKey is the context key for storing the authenticated user
	UserContextKey contextKey = "user"

	// UserIDHeader carries the caller's identity. The API gateway in
	// front of this service authenticates the request and sets it.
	UserIDHeader = "X-User-ID"
)

// UserLookup resolves user IDs; satisfied by the repository.
type UserLookup interface {
	GetUser(ctx context.Context, id int32) (domain.User, error)
}

// WithUser resolves the X-User-ID header to a user and adds it to the
// request context. Requests without a valid header continue anonymously.
func WithUser(repo UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserIDHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := strconv.ParseInt(raw, 10, 32)
			if err != nil || id <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			user, err := repo.GetUser(r.Context(), int32(id))
			if err != nil {
				// Unknown user, continue anonymously
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser ensures the request carries a resolved user, returning 401 if not.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			respondUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures the user is an admin, returning 401/403 if not.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			respondUnauthorized(w, r)
			return
		}
		if !user.IsAdmin {
			respondForbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext retrieves the authenticated user from the context.
// Returns nil if no user is authenticated.
func GetUserFromContext(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(UserContextKey).(*domain.User); ok {
		return user
	}
	return nil
}
