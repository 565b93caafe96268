package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/snuggle-shop/snuggle/internal/domain"
)

type fakeUserLookup struct {
	users map[int32]domain.User
}

func (f *fakeUserLookup) GetUser(ctx context.Context, id int32) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func resolveUser(t *testing.T, lookup UserLookup, header string) *domain.User {
	t.Helper()
	var got *domain.User
	handler := WithUser(lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetUserFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		r.Header.Set(UserIDHeader, header)
	}
	handler.ServeHTTP(httptest.NewRecorder(), r)
	return got
}

func TestWithUser(t *testing.T) {
	lookup := &fakeUserLookup{users: map[int32]domain.User{
		7: {ID: 7, Email: "asha@example.com", Name: "Asha"},
	}}

	t.Run("resolves a known user", func(t *testing.T) {
		user := resolveUser(t, lookup, "7")
		if assert.NotNil(t, user) {
			assert.Equal(t, int32(7), user.ID)
		}
	})

	t.Run("missing header continues anonymously", func(t *testing.T) {
		assert.Nil(t, resolveUser(t, lookup, ""))
	})

	t.Run("junk header continues anonymously", func(t *testing.T) {
		for _, raw := range []string{"abc", "0", "-1"} {
			assert.Nil(t, resolveUser(t, lookup, raw))
		}
	})

	t.Run("unknown user continues anonymously", func(t *testing.T) {
		assert.Nil(t, resolveUser(t, lookup, "99"))
	})
}

func TestRequireUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("rejects anonymous requests", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireUser(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("passes authenticated requests through", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(r.Context(), UserContextKey, &domain.User{ID: 7})
		w := httptest.NewRecorder()
		RequireUser(next).ServeHTTP(w, r.WithContext(ctx))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	withUser := func(u *domain.User) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if u == nil {
			return r
		}
		return r.WithContext(context.WithValue(r.Context(), UserContextKey, u))
	}

	t.Run("rejects anonymous requests", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(w, withUser(nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects non-admin users", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(w, withUser(&domain.User{ID: 7}))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("passes admins through", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(w, withUser(&domain.User{ID: 1, IsAdmin: true}))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
