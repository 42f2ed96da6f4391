package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxCompleted TransactionStatus = "COMPLETED"
	TxFailed    TransactionStatus = "FAILED"
)

// Transaction is immutable once inserted.
type Transaction struct {
	ID           uuid.UUID         `json:"transaction_id" db:"id"`
	PayerID      uuid.UUID         `json:"payer_id" db:"payer_id"`
	PayerName    string            `json:"payer_name" db:"payer_name"`
	ReceiverID   string            `json:"receiver_id" db:"receiver_id"`
	ReceiverName string            `json:"receiver_name" db:"receiver_name"`
	Amount       int64             `json:"amount" db:"amount"`
	Status       TransactionStatus `json:"status" db:"status"`
	InitiatedAt  time.Time         `json:"initiated_at" db:"initiated_at"`
	CompletedAt  time.Time         `json:"completed_at" db:"completed_at"`
	DebtID       int64             `json:"debt_id" db:"debt_id"`
	Semester     string            `json:"semester" db:"semester"`
	AcademicYear string            `json:"academic_year" db:"academic_year"`
}
