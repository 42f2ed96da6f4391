package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"tuitionpay/internal/models"
)

// In-memory fakes for the repository interfaces. The pgx.Tx handed out by
// fakeDB is inert; the fakes apply their writes directly.

type fakeDB struct {
	mu       sync.Mutex
	beginErr error
	begun    int
	commits  int
}

type fakeTx struct {
	pgx.Tx
	db *fakeDB
}

func (t fakeTx) Commit(ctx context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.commits++
	return nil
}

func (t fakeTx) Rollback(ctx context.Context) error { return nil }

func (d *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	d.begun++
	return fakeTx{db: d}, nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*models.Customer
	lookupErr error
}

func newFakeCustomerRepo(customers ...*models.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[uuid.UUID]*models.Customer)}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCustomerRepo) GetByUsername(ctx context.Context, username string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	for _, c := range r.customers {
		if c.Username == username {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCustomerRepo) DebitBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok || c.AvailableBalance < amount {
		return 0, pgx.ErrNoRows
	}
	c.AvailableBalance -= amount
	return c.AvailableBalance, nil
}

type studentFixture struct {
	student models.Student
	debt    models.TuitionDebt
}

type fakeStudentRepo struct {
	mu       sync.Mutex
	fixtures map[string]*studentFixture
	paidErr  error
}

func newFakeStudentRepo(fixtures ...*studentFixture) *fakeStudentRepo {
	r := &fakeStudentRepo{fixtures: make(map[string]*studentFixture)}
	for _, f := range fixtures {
		r.fixtures[f.student.StudentID] = f
	}
	return r
}

func (r *fakeStudentRepo) GetStudentWithUnpaidDebt(ctx context.Context, studentID string) (*models.Student, *models.TuitionDebt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fixtures[studentID]
	if !ok || f.debt.Status != models.DebtUnpaid {
		return nil, nil, nil
	}
	s, d := f.student, f.debt
	return &s, &d, nil
}

func (r *fakeStudentRepo) MarkDebtPaid(ctx context.Context, tx pgx.Tx, debtID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paidErr != nil {
		return r.paidErr
	}
	for _, f := range r.fixtures {
		if f.debt.DebtID == debtID && f.debt.Status == models.DebtUnpaid {
			f.debt.Status = models.DebtPaid
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions []models.Transaction
	createErr    error
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.transactions = append(r.transactions, *t)
	return nil
}

func (r *fakeTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.transactions {
		if r.transactions[i].ID == id {
			clone := r.transactions[i]
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) ListByPayer(ctx context.Context, payerID uuid.UUID) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, t := range r.transactions {
		if t.PayerID == payerID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.sessions[s.Token] = &clone
	return nil
}

func (r *fakeSessionRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context) error { return nil }

// recordingSender captures issued OTP codes instead of delivering them.
type recordingSender struct {
	mu    sync.Mutex
	codes []string
}

func (s *recordingSender) Send(email, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, code)
}

func (s *recordingSender) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.codes) == 0 {
		return ""
	}
	return s.codes[len(s.codes)-1]
}
