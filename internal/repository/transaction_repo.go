package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tuitionpay/internal/models"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, t *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListByPayer(ctx context.Context, payerID uuid.UUID) ([]models.Transaction, error)
}

type pgTransactionRepository struct {
	db *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) TransactionRepository {
	return &pgTransactionRepository{db: db}
}

const transactionColumns = `id, payer_id, payer_name, receiver_id, receiver_name, amount, status, initiated_at, completed_at, debt_id, semester, academic_year`

func (r *pgTransactionRepository) Create(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := tx.Exec(ctx, query,
		t.ID, t.PayerID, t.PayerName, t.ReceiverID, t.ReceiverName,
		t.Amount, t.Status, t.InitiatedAt, t.CompletedAt,
		t.DebtID, t.Semester, t.AcademicYear,
	)
	if err != nil {
		return fmt.Errorf("error executing insert transaction query: %w", err)
	}
	return nil
}

func (r *pgTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	var t models.Transaction
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.PayerID, &t.PayerName, &t.ReceiverID, &t.ReceiverName,
		&t.Amount, &t.Status, &t.InitiatedAt, &t.CompletedAt,
		&t.DebtID, &t.Semester, &t.AcademicYear,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning transaction row: %w", err)
	}
	return &t, nil
}

func (r *pgTransactionRepository) ListByPayer(ctx context.Context, payerID uuid.UUID) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE payer_id = $1
		ORDER BY completed_at DESC, id ASC
	`
	rows, err := r.db.Query(ctx, query, payerID)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions by payer: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(
			&t.ID, &t.PayerID, &t.PayerName, &t.ReceiverID, &t.ReceiverName,
			&t.Amount, &t.Status, &t.InitiatedAt, &t.CompletedAt,
			&t.DebtID, &t.Semester, &t.AcademicYear,
		); err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating over transaction rows: %w", err)
	}
	return transactions, nil
}
