package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tuitionpay/internal/models"
)

type CustomerRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	// DebitBalance subtracts amount inside tx and returns the new balance.
	// Returns pgx.ErrNoRows when the balance would go negative.
	DebitBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (int64, error)
}

type pgCustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) CustomerRepository {
	return &pgCustomerRepository{db: db}
}

const customerColumns = `id, student_id, username, password_hash, full_name, phone_number, email, available_balance, program, created_at, updated_at`

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(
		&c.ID, &c.StudentID, &c.Username, &c.PasswordHash, &c.FullName,
		&c.PhoneNumber, &c.Email, &c.AvailableBalance, &c.Program,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning customer row: %w", err)
	}
	return &c, nil
}

func (r *pgCustomerRepository) GetByUsername(ctx context.Context, username string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE username = $1`
	return scanCustomer(r.db.QueryRow(ctx, query, username))
}

func (r *pgCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.db.QueryRow(ctx, query, id))
}

func (r *pgCustomerRepository) DebitBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (int64, error) {
	query := `
		UPDATE customers
		SET available_balance = available_balance - $2, updated_at = NOW()
		WHERE id = $1 AND available_balance >= $2
		RETURNING available_balance
	`
	var newBalance int64
	if err := tx.QueryRow(ctx, query, id, amount).Scan(&newBalance); err != nil {
		if err == pgx.ErrNoRows {
			return 0, err
		}
		return 0, fmt.Errorf("error executing debit balance query: %w", err)
	}
	return newBalance, nil
}
