package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
)

// readRetries bounds additional attempts for transient failures on
// read-only queries. Write paths never retry; they roll back.
const readRetries = 2

// RetryRead runs fn, retrying transient connection failures with a
// short constant backoff. fn must be a read-only query.
func RetryRead[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var out T
	backoff := retry.WithMaxRetries(readRetries, retry.NewConstant(50*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		out, err = fn()
		if err != nil && transient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	return out, err
}

func transient(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return false
	}
	return pgconn.SafeToRetry(err)
}
