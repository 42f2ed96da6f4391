package models

import (
	"time"

	"github.com/google/uuid"
)

// OtpChallenge stores only the bcrypt hash of the code. A challenge is
// usable strictly before ExpiresAt and is consumed at most once.
type OtpChallenge struct {
	ID          uuid.UUID
	TargetEmail string
	CodeHash    string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Attempts    int
}
