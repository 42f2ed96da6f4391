package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID               uuid.UUID `json:"customer_id" db:"id"`
	StudentID        *string   `json:"student_id" db:"student_id"`
	Username         string    `json:"username" db:"username"`
	PasswordHash     string    `json:"-" db:"password_hash"`
	FullName         string    `json:"full_name" db:"full_name"`
	PhoneNumber      string    `json:"phone_number" db:"phone_number"`
	Email            string    `json:"email" db:"email"`
	AvailableBalance int64     `json:"available_balance" db:"available_balance"`
	Program          string    `json:"program" db:"program"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// Profile is the customer view returned to clients. It carries no
// password hash field at all, so it cannot leak one by accident.
type Profile struct {
	ID               uuid.UUID `json:"customer_id"`
	StudentID        *string   `json:"student_id"`
	Username         string    `json:"username"`
	FullName         string    `json:"full_name"`
	PhoneNumber      string    `json:"phone_number"`
	Email            string    `json:"email"`
	AvailableBalance int64     `json:"available_balance"`
	Program          string    `json:"program"`
}

func (c *Customer) Profile() Profile {
	return Profile{
		ID:               c.ID,
		StudentID:        c.StudentID,
		Username:         c.Username,
		FullName:         c.FullName,
		PhoneNumber:      c.PhoneNumber,
		Email:            c.Email,
		AvailableBalance: c.AvailableBalance,
		Program:          c.Program,
	}
}
