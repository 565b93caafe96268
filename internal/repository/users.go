package repository

import (
	"context"

	"github.com/snuggle-shop/snuggle/internal/domain"
)

const createUser = `
INSERT INTO users (email, name, is_admin)
VALUES ($1, $2, $3)
RETURNING id, email, name, is_admin, created_at
`

// CreateUserParams contains parameters for creating a user.
type CreateUserParams struct {
	Email   string
	Name    string
	IsAdmin bool
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (domain.User, error) {
	var u domain.User
	err := q.db.QueryRow(ctx, createUser, arg.Email, arg.Name, arg.IsAdmin).
		Scan(&u.ID, &u.Email, &u.Name, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

const getUserByEmail = `
SELECT id, email, name, is_admin, created_at
FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var u domain.User
	err := q.db.QueryRow(ctx, getUserByEmail, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

const setUserAdmin = `
UPDATE users
SET is_admin = $2
WHERE id = $1
`

func (q *Queries) SetUserAdmin(ctx context.Context, id int32, isAdmin bool) error {
	_, err := q.db.Exec(ctx, setUserAdmin, id, isAdmin)
	return err
}
