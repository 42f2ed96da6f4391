package service

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"tuitionpay/internal/models"
	"tuitionpay/internal/repository"
	"tuitionpay/pkg/utils"
)

type Receipt struct {
	Filename string
	Content  string
}

type HistoryService interface {
	// List returns the payer's transactions, most recent completion first.
	// An empty slice is a valid result, not an error.
	List(ctx context.Context, payerID uuid.UUID) ([]models.Transaction, error)
	Get(ctx context.Context, payerID, transactionID uuid.UUID) (*models.Transaction, error)
	Receipt(ctx context.Context, payerID, transactionID uuid.UUID) (*Receipt, error)
}

type historyService struct {
	txRepo repository.TransactionRepository
	now    func() time.Time
}

func NewHistoryService(txRepo repository.TransactionRepository) HistoryService {
	return &historyService{txRepo: txRepo, now: time.Now}
}

func (s *historyService) List(ctx context.Context, payerID uuid.UUID) ([]models.Transaction, error) {
	transactions, err := s.txRepo.ListByPayer(ctx, payerID)
	if err != nil {
		log.Printf("[ERROR] transaction list failed: %v", err)
		return nil, utils.ErrInternalServer
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		if !transactions[i].CompletedAt.Equal(transactions[j].CompletedAt) {
			return transactions[i].CompletedAt.After(transactions[j].CompletedAt)
		}
		return transactions[i].ID.String() < transactions[j].ID.String()
	})

	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

func (s *historyService) Get(ctx context.Context, payerID, transactionID uuid.UUID) (*models.Transaction, error) {
	t, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		log.Printf("[ERROR] transaction fetch failed: %v", err)
		return nil, utils.ErrInternalServer
	}
	if t == nil || t.PayerID != payerID {
		return nil, utils.ErrTransactionNotFound
	}
	return t, nil
}

func (s *historyService) Receipt(ctx context.Context, payerID, transactionID uuid.UUID) (*Receipt, error) {
	t, err := s.Get(ctx, payerID, transactionID)
	if err != nil {
		return nil, err
	}
	return &Receipt{
		Filename: "receipt_" + t.ID.String() + ".txt",
		Content:  RenderReceipt(t, s.now()),
	}, nil
}
