package repository

import (
	"context"

	"github.com/snuggle-shop/snuggle/internal/domain"
)

const createAddress = `
INSERT INTO addresses (user_id, line1, line2, city, state, postal_code, phone, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, user_id, line1, line2, city, state, postal_code, phone, is_default
`

// CreateAddressParams contains parameters for creating a shipping address.
type CreateAddressParams struct {
	UserID     int32
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Phone      string
	IsDefault  bool
}

func (q *Queries) CreateAddress(ctx context.Context, arg CreateAddressParams) (domain.Address, error) {
	var a domain.Address
	err := q.db.QueryRow(ctx, createAddress,
		arg.UserID, arg.Line1, arg.Line2, arg.City, arg.State, arg.PostalCode, arg.Phone, arg.IsDefault,
	).Scan(&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.City, &a.State, &a.PostalCode, &a.Phone, &a.IsDefault)
	return a, err
}

const clearDefaultAddress = `
UPDATE addresses
SET is_default = FALSE
WHERE user_id = $1 AND is_default
`

// ClearDefaultAddress unsets the default flag on all of a user's
// addresses. Called before inserting a new default.
func (q *Queries) ClearDefaultAddress(ctx context.Context, userID int32) error {
	_, err := q.db.Exec(ctx, clearDefaultAddress, userID)
	return err
}

const listAddressesByUser = `
SELECT id, user_id, line1, line2, city, state, postal_code, phone, is_default
FROM addresses
WHERE user_id = $1
ORDER BY is_default DESC, id
`

func (q *Queries) ListAddressesByUser(ctx context.Context, userID int32) ([]domain.Address, error) {
	rows, err := q.db.Query(ctx, listAddressesByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.City, &a.State, &a.PostalCode, &a.Phone, &a.IsDefault); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}
