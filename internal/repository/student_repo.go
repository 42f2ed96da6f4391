package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tuitionpay/internal/models"
)

type StudentRepository interface {
	// GetStudentWithUnpaidDebt returns (nil, nil, nil) when the student does
	// not exist or has no UNPAID debt; callers do not learn which.
	GetStudentWithUnpaidDebt(ctx context.Context, studentID string) (*models.Student, *models.TuitionDebt, error)
	// MarkDebtPaid flips an UNPAID debt to PAID inside tx. Returns
	// pgx.ErrNoRows when the debt is missing or already paid.
	MarkDebtPaid(ctx context.Context, tx pgx.Tx, debtID int64) error
}

type pgStudentRepository struct {
	db *pgxpool.Pool
}

func NewStudentRepository(db *pgxpool.Pool) StudentRepository {
	return &pgStudentRepository{db: db}
}

func (r *pgStudentRepository) GetStudentWithUnpaidDebt(ctx context.Context, studentID string) (*models.Student, *models.TuitionDebt, error) {
	query := `
		SELECT s.student_id, s.full_name, s.program, s.created_at,
		       d.id, d.student_id, d.amount, d.semester, d.academic_year, d.due_date, d.status
		FROM students s
		JOIN tuition_debts d ON d.student_id = s.student_id
		WHERE s.student_id = $1 AND d.status = 'UNPAID'
		ORDER BY d.due_date ASC
		LIMIT 1
	`
	var s models.Student
	var d models.TuitionDebt
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&s.StudentID, &s.FullName, &s.Program, &s.CreatedAt,
		&d.DebtID, &d.StudentID, &d.Amount, &d.Semester, &d.AcademicYear, &d.DueDate, &d.Status,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("error scanning student debt row: %w", err)
	}
	return &s, &d, nil
}

func (r *pgStudentRepository) MarkDebtPaid(ctx context.Context, tx pgx.Tx, debtID int64) error {
	query := `
		UPDATE tuition_debts
		SET status = 'PAID', updated_at = NOW()
		WHERE id = $1 AND status = 'UNPAID'
	`
	tag, err := tx.Exec(ctx, query, debtID)
	if err != nil {
		return fmt.Errorf("error executing mark debt paid query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
