package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/repository"
)

type fakeUserStore struct {
	byEmail  map[string]domain.User
	created  []repository.CreateUserParams
	promoted []int32
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) CreateUser(ctx context.Context, arg repository.CreateUserParams) (domain.User, error) {
	f.created = append(f.created, arg)
	return domain.User{ID: 1, Email: arg.Email, Name: arg.Name, IsAdmin: arg.IsAdmin}, nil
}

func (f *fakeUserStore) SetUserAdmin(ctx context.Context, id int32, isAdmin bool) error {
	f.promoted = append(f.promoted, id)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("skips when no email is configured", func(t *testing.T) {
		store := &fakeUserStore{}
		err := EnsureAdmin(context.Background(), store, AdminConfig{}, discardLogger())
		require.NoError(t, err)
		assert.Empty(t, store.created)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		err := EnsureAdmin(context.Background(), &fakeUserStore{}, AdminConfig{Email: "not-an-email"}, discardLogger())
		require.Error(t, err)
	})

	t.Run("creates the admin when missing", func(t *testing.T) {
		store := &fakeUserStore{}
		err := EnsureAdmin(context.Background(), store, AdminConfig{Email: "admin@snuggle.shop"}, discardLogger())
		require.NoError(t, err)
		require.Len(t, store.created, 1)
		assert.Equal(t, "admin@snuggle.shop", store.created[0].Email)
		assert.Equal(t, "Admin", store.created[0].Name)
		assert.True(t, store.created[0].IsAdmin)
	})

	t.Run("is idempotent for an existing admin", func(t *testing.T) {
		store := &fakeUserStore{byEmail: map[string]domain.User{
			"admin@snuggle.shop": {ID: 1, Email: "admin@snuggle.shop", IsAdmin: true},
		}}
		err := EnsureAdmin(context.Background(), store, AdminConfig{Email: "admin@snuggle.shop"}, discardLogger())
		require.NoError(t, err)
		assert.Empty(t, store.created)
		assert.Empty(t, store.promoted)
	})

	t.Run("promotes an existing non-admin user", func(t *testing.T) {
		store := &fakeUserStore{byEmail: map[string]domain.User{
			"asha@example.com": {ID: 7, Email: "asha@example.com"},
		}}
		err := EnsureAdmin(context.Background(), store, AdminConfig{Email: "asha@example.com"}, discardLogger())
		require.NoError(t, err)
		assert.Equal(t, []int32{7}, store.promoted)
		assert.Empty(t, store.created)
	})
}
