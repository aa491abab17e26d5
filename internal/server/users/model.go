package users

import "time"

// User is a registered identity. PasswordHash is the opaque bcrypt verifier
// and must never be serialized outward.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}
