package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"tuitionpay/internal/models"
)

type WorkflowState string

const (
	StateIdle              WorkflowState = "IDLE"
	StateStudentLookedUp   WorkflowState = "STUDENT_LOOKED_UP"
	StateAwaitingOtp       WorkflowState = "AWAITING_OTP"
	StateOtpVerified       WorkflowState = "OTP_VERIFIED"
	StatePaymentProcessing WorkflowState = "PAYMENT_PROCESSING"
	StateCompleted         WorkflowState = "COMPLETED"
	StateFailed            WorkflowState = "FAILED"
)

// PaymentWorkflow is one end-to-end attempt to pay a single debt. All
// transient state for the attempt lives here, never in package globals,
// so concurrent attempts (separate tabs) cannot cross-talk.
type PaymentWorkflow struct {
	mu sync.Mutex

	ID         uuid.UUID
	CustomerID uuid.UUID
	State      WorkflowState

	Student *models.Student
	Debt    *models.TuitionDebt

	challenge   *models.OtpChallenge
	expiryTimer *time.Timer
	initiatedAt time.Time
}

// stopTimer cancels the pending expiry callback. Must be called on every
// exit from AWAITING_OTP so a stale timer never fires against a new or
// discarded challenge.
func (w *PaymentWorkflow) stopTimer() {
	if w.expiryTimer != nil {
		w.expiryTimer.Stop()
		w.expiryTimer = nil
	}
}

// dropChallenge discards the live challenge and returns the workflow to
// STUDENT_LOOKED_UP; the user has to restart from confirmation.
func (w *PaymentWorkflow) dropChallenge() {
	w.stopTimer()
	w.challenge = nil
	w.State = StateStudentLookedUp
}

// workflowManager owns the live workflow instances, keyed by workflow id.
type workflowManager struct {
	mu        sync.Mutex
	workflows map[uuid.UUID]*PaymentWorkflow
}

func newWorkflowManager() *workflowManager {
	return &workflowManager{workflows: make(map[uuid.UUID]*PaymentWorkflow)}
}

func (m *workflowManager) add(w *PaymentWorkflow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workflows[w.ID] = w
}

// get returns the workflow only when it belongs to the given customer.
func (m *workflowManager) get(id, customerID uuid.UUID) *PaymentWorkflow {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workflows[id]
	if !ok || w.CustomerID != customerID {
		return nil
	}
	return w
}

func (m *workflowManager) find(id uuid.UUID) *PaymentWorkflow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.workflows[id]
}

func (m *workflowManager) remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workflows, id)
}
