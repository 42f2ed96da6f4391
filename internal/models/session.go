package models

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Token      string    `json:"token" db:"token"`
	CustomerID uuid.UUID `json:"customer_id" db:"customer_id"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
