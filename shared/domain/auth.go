package domain

import "time"

type Credentials struct {
	Email    Email
	Password Password
}

// ResetToken is a single-use password reset grant. Only the SHA-256 hash of
// the token travels to storage; the raw value lives in the emailed link.
type ResetToken struct {
	UserId    UserId
	TokenHash string
	CreatedAt time.Time
}
