package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"tuitionpay/internal/models"
	"tuitionpay/internal/repository"
	"tuitionpay/pkg/utils"
)

const minStudentIDLength = 7

var otpCodePattern = regexp.MustCompile(`^\d{6}$`)

// TxBeginner is the slice of pgxpool.Pool the payment executor needs.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OtpSender delivers a one-time passcode out-of-band.
type OtpSender interface {
	Send(email, code string)
}

// LogOtpSender writes the code to the process log. Stand-in delivery
// channel for local deployments without an SMTP relay.
type LogOtpSender struct{}

func (LogOtpSender) Send(email, code string) {
	log.Printf("[INFO] OTP for %s: %s", email, code)
}

type LookupResult struct {
	WorkflowID uuid.UUID                `json:"workflow_id"`
	Record     models.StudentDebtRecord `json:"record"`
}

type ChallengeInfo struct {
	WorkflowID  uuid.UUID `json:"workflow_id"`
	TargetEmail string    `json:"target_email"`
	ExpiresAt   time.Time `json:"expires_at"`
	TTLSeconds  int       `json:"ttl_seconds"`
}

type PaymentResult struct {
	Transaction      models.Transaction `json:"transaction"`
	AvailableBalance int64              `json:"available_balance"`
}

type PaymentService interface {
	// StudentDebt is the read-only lookup: student profile plus the single
	// outstanding debt, with no workflow side effects.
	StudentDebt(ctx context.Context, studentID string) (*models.StudentDebtRecord, error)
	LookupStudent(ctx context.Context, customer *models.Customer, studentID string) (*LookupResult, error)
	ConfirmPayment(ctx context.Context, customer *models.Customer, workflowID uuid.UUID) (*ChallengeInfo, error)
	VerifyOtp(ctx context.Context, customer *models.Customer, workflowID uuid.UUID, code string) (*PaymentResult, error)
	CancelWorkflow(ctx context.Context, customer *models.Customer, workflowID uuid.UUID) error
}

type paymentService struct {
	db        TxBeginner
	customers repository.CustomerRepository
	students  repository.StudentRepository
	txRepo    repository.TransactionRepository
	sender    OtpSender
	manager   *workflowManager

	otpTTL time.Duration
	now    func() time.Time
	after  func(d time.Duration, f func()) *time.Timer
}

func NewPaymentService(db TxBeginner, customers repository.CustomerRepository, students repository.StudentRepository, txRepo repository.TransactionRepository, sender OtpSender, otpTTL time.Duration) PaymentService {
	return &paymentService{
		db:        db,
		customers: customers,
		students:  students,
		txRepo:    txRepo,
		sender:    sender,
		manager:   newWorkflowManager(),
		otpTTL:    otpTTL,
		now:       time.Now,
		after:     time.AfterFunc,
	}
}

func (s *paymentService) fetchUnpaidDebt(ctx context.Context, studentID string) (*models.Student, *models.TuitionDebt, error) {
	if len(studentID) < minStudentIDLength {
		return nil, nil, utils.ErrValidation
	}

	student, debt, err := s.students.GetStudentWithUnpaidDebt(ctx, studentID)
	if err != nil {
		log.Printf("[ERROR] student debt lookup failed: %v", err)
		return nil, nil, utils.ErrInternalServer
	}
	if student == nil || debt == nil || debt.Status != models.DebtUnpaid {
		return nil, nil, utils.ErrStudentNotFound
	}
	return student, debt, nil
}

func (s *paymentService) StudentDebt(ctx context.Context, studentID string) (*models.StudentDebtRecord, error) {
	student, debt, err := s.fetchUnpaidDebt(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &models.StudentDebtRecord{
		StudentID: student.StudentID,
		FullName:  student.FullName,
		Program:   student.Program,
		Tuition:   *debt,
	}, nil
}

func (s *paymentService) LookupStudent(ctx context.Context, customer *models.Customer, studentID string) (*LookupResult, error) {
	student, debt, err := s.fetchUnpaidDebt(ctx, studentID)
	if err != nil {
		return nil, err
	}

	w := &PaymentWorkflow{
		ID:         uuid.New(),
		CustomerID: customer.ID,
		State:      StateStudentLookedUp,
		Student:    student,
		Debt:       debt,
	}
	s.manager.add(w)

	return &LookupResult{
		WorkflowID: w.ID,
		Record: models.StudentDebtRecord{
			StudentID: student.StudentID,
			FullName:  student.FullName,
			Program:   student.Program,
			Tuition:   *debt,
		},
	}, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, customer *models.Customer, workflowID uuid.UUID) (*ChallengeInfo, error) {
	w := s.manager.get(workflowID, customer.ID)
	if w == nil {
		return nil, utils.ErrWorkflowNotFound
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.State != StateStudentLookedUp {
		return nil, utils.ErrWorkflowState
	}

	// Affordability is checked against the stored balance, not whatever
	// snapshot the client holds, and before any OTP is issued.
	fresh, err := s.customers.GetByID(ctx, customer.ID)
	if err != nil {
		log.Printf("[ERROR] balance check failed: %v", err)
		return nil, utils.ErrInternalServer
	}
	if fresh == nil {
		return nil, utils.ErrUnauthorized
	}
	if w.Debt.Amount > fresh.AvailableBalance {
		return nil, utils.ErrInsufficientFunds
	}

	code, err := generateOtpCode()
	if err != nil {
		return nil, utils.ErrInternalServer
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.ErrInternalServer
	}

	issuedAt := s.now()
	challenge := &models.OtpChallenge{
		ID:          uuid.New(),
		TargetEmail: fresh.Email,
		CodeHash:    string(codeHash),
		IssuedAt:    issuedAt,
		ExpiresAt:   issuedAt.Add(s.otpTTL),
	}

	w.challenge = challenge
	w.initiatedAt = issuedAt
	w.State = StateAwaitingOtp
	w.expiryTimer = s.after(s.otpTTL, func() {
		s.expireChallenge(workflowID, challenge.ID)
	})

	s.sender.Send(fresh.Email, code)

	return &ChallengeInfo{
		WorkflowID:  w.ID,
		TargetEmail: fresh.Email,
		ExpiresAt:   challenge.ExpiresAt,
		TTLSeconds:  int(s.otpTTL / time.Second),
	}, nil
}

// expireChallenge fires from the countdown timer. The challenge id guard
// keeps a stale timer from touching a newer challenge.
func (s *paymentService) expireChallenge(workflowID, challengeID uuid.UUID) {
	w := s.manager.find(workflowID)
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.State != StateAwaitingOtp || w.challenge == nil || w.challenge.ID != challengeID {
		return
	}
	w.dropChallenge()
}

func (s *paymentService) VerifyOtp(ctx context.Context, customer *models.Customer, workflowID uuid.UUID, code string) (*PaymentResult, error) {
	w := s.manager.get(workflowID, customer.ID)
	if w == nil {
		return nil, utils.ErrWorkflowNotFound
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.State != StateAwaitingOtp || w.challenge == nil {
		return nil, utils.ErrWorkflowState
	}

	if !otpCodePattern.MatchString(code) {
		return nil, utils.ErrOtpInvalid
	}

	challenge := w.challenge
	if !s.now().Before(challenge.ExpiresAt) {
		w.dropChallenge()
		return nil, utils.ErrOtpExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(code)) != nil {
		challenge.Attempts++
		return nil, utils.ErrOtpInvalid
	}

	// Consume the challenge before touching money: a second submission of
	// the same code can never debit twice.
	w.stopTimer()
	w.challenge = nil
	w.State = StateOtpVerified

	w.State = StatePaymentProcessing
	result, err := s.executePayment(ctx, customer, w)
	if err != nil {
		w.State = StateFailed
		return nil, err
	}

	w.State = StateCompleted
	return result, nil
}

// executePayment debits the payer, marks the debt paid and records the
// transaction in one database transaction. Either all of it commits or
// the balance is untouched.
func (s *paymentService) executePayment(ctx context.Context, customer *models.Customer, w *PaymentWorkflow) (*PaymentResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		log.Printf("[ERROR] begin payment transaction failed: %v", err)
		return nil, utils.ErrPaymentProcessing
	}
	defer tx.Rollback(ctx)

	newBalance, err := s.customers.DebitBalance(ctx, tx, customer.ID, w.Debt.Amount)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, utils.ErrInsufficientFunds
		}
		log.Printf("[ERROR] balance debit failed: %v", err)
		return nil, utils.ErrPaymentProcessing
	}

	if err := s.students.MarkDebtPaid(ctx, tx, w.Debt.DebtID); err != nil {
		if err != pgx.ErrNoRows {
			log.Printf("[ERROR] debt update failed: %v", err)
		}
		return nil, utils.ErrPaymentProcessing
	}

	completedAt := s.now()
	transaction := &models.Transaction{
		ID:           uuid.New(),
		PayerID:      customer.ID,
		PayerName:    customer.FullName,
		ReceiverID:   w.Student.StudentID,
		ReceiverName: w.Student.FullName,
		Amount:       w.Debt.Amount,
		Status:       models.TxCompleted,
		InitiatedAt:  w.initiatedAt,
		CompletedAt:  completedAt,
		DebtID:       w.Debt.DebtID,
		Semester:     w.Debt.Semester,
		AcademicYear: w.Debt.AcademicYear,
	}
	if err := s.txRepo.Create(ctx, tx, transaction); err != nil {
		log.Printf("[ERROR] transaction insert failed: %v", err)
		return nil, utils.ErrPaymentProcessing
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("[ERROR] payment commit failed: %v", err)
		return nil, utils.ErrPaymentProcessing
	}

	return &PaymentResult{Transaction: *transaction, AvailableBalance: newBalance}, nil
}

func (s *paymentService) CancelWorkflow(ctx context.Context, customer *models.Customer, workflowID uuid.UUID) error {
	w := s.manager.get(workflowID, customer.ID)
	if w == nil {
		return utils.ErrWorkflowNotFound
	}

	w.mu.Lock()
	w.stopTimer()
	w.challenge = nil
	w.State = StateIdle
	w.mu.Unlock()

	s.manager.remove(workflowID)
	return nil
}

// generateOtpCode returns six decimal digits from crypto/rand.
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
