package services

import (
	"context"
	"time"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/models"
	"github.com/asandoval/fintrack-backend/pkg/logger"
)

const (
	dateLayout       = "2006-01-02"
	defaultStartDate = "2023-01-01"
)

type plaidTxClient interface {
	GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]dto.BankTransaction, error)
}

type itemTSStore interface {
	List(ctx context.Context, uid string) ([]*models.LinkedItem, error)
}

type transactionTSStore interface {
	UpsertBatch(ctx context.Context, uid string, txs []models.Transaction) error
}

type transactionService struct {
	plaid    plaidTxClient
	items    itemTSStore
	txs      transactionTSStore
	clockNow func() time.Time
}

func NewTransactionService(plaid plaidTxClient, items itemTSStore, txs transactionTSStore) *transactionService {
	return &transactionService{
		plaid:    plaid,
		items:    items,
		txs:      txs,
		clockNow: time.Now,
	}
}

// Fetch pulls transactions for every linked item in the date range,
// normalizes them, and merge-upserts one batch per item. Empty dates default
// to 2023-01-01 and today. Returns the concatenation across items.
func (s *transactionService) Fetch(ctx context.Context, uid, startDate, endDate string) ([]models.Transaction, error) {
	if startDate == "" {
		startDate = defaultStartDate
	}
	if endDate == "" {
		endDate = s.clockNow().Format(dateLayout)
	}

	log := logger.FromContext(ctx)

	items, err := s.items.List(ctx, uid)
	if err != nil {
		return nil, err
	}

	var all []models.Transaction
	now := s.clockNow()

	for _, item := range items {
		raw, err := s.plaid.GetTransactions(ctx, item.AccessToken, startDate, endDate)
		if err != nil {
			return nil, err
		}

		txs := make([]models.Transaction, 0, len(raw))
		for _, t := range raw {
			txs = append(txs, normalize(t, now))
		}

		if err := s.txs.UpsertBatch(ctx, uid, txs); err != nil {
			return nil, err
		}
		all = append(all, txs...)
	}

	log.Info("transactions fetched",
		"item_count", len(items),
		"transaction_count", len(all),
		"start_date", startDate,
		"end_date", endDate)
	return all, nil
}

// normalize maps an aggregator transaction to the stored shape. The sign is
// inverted (negative = expense) while the type derives from the original,
// pre-inversion sign.
func normalize(t dto.BankTransaction, now time.Time) models.Transaction {
	txType := "income"
	if t.Amount > 0 {
		txType = "expense"
	}

	category := "Other"
	if len(t.Categories) > 0 {
		category = t.Categories[0]
	}

	return models.Transaction{
		TransactionID: t.TransactionID,
		AccountID:     t.AccountID,
		Amount:        -t.Amount,
		Date:          t.Date,
		Description:   t.Name,
		Category:      category,
		Type:          txType,
		MerchantName:  t.MerchantName,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
