package models

import "time"

type DebtStatus string

const (
	DebtUnpaid DebtStatus = "UNPAID"
	DebtPaid   DebtStatus = "PAID"
)

type Student struct {
	StudentID string    `json:"student_id" db:"student_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Program   string    `json:"program" db:"program"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type TuitionDebt struct {
	DebtID       int64      `json:"debt_id" db:"id"`
	StudentID    string     `json:"student_id" db:"student_id"`
	Amount       int64      `json:"amount" db:"amount"`
	Semester     string     `json:"semester" db:"semester"`
	AcademicYear string     `json:"academic_year" db:"academic_year"`
	DueDate      time.Time  `json:"due_date" db:"due_date"`
	Status       DebtStatus `json:"status" db:"status"`
}

// StudentDebtRecord is the lookup response: a student profile plus the
// single outstanding tuition obligation.
type StudentDebtRecord struct {
	StudentID string      `json:"student_id"`
	FullName  string      `json:"full_name"`
	Program   string      `json:"program"`
	Tuition   TuitionDebt `json:"tuition"`
}
