package domain

import "time"

// User is a store customer or admin. Authentication happens upstream;
// this service trusts the resolved identity it is handed.
type User struct {
	ID        int32
	Email     string
	Name      string
	IsAdmin   bool
	CreatedAt time.Time
}

var ErrUserNotFound = &Error{Code: ENOTFOUND, Message: "User not found"}
