package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/models"
	"github.com/asandoval/fintrack-backend/pkg/helpers"
)

// --- fakes ---

type fakeTxClient struct {
	pages  map[string][]dto.BankTransaction // keyed by access token
	err    error
	ranges [][2]string
}

func (f *fakeTxClient) GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]dto.BankTransaction, error) {
	f.ranges = append(f.ranges, [2]string{startDate, endDate})
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[accessToken], nil
}

type fakeItemLister struct {
	items []*models.LinkedItem
	err   error
}

func (f *fakeItemLister) List(ctx context.Context, uid string) ([]*models.LinkedItem, error) {
	return f.items, f.err
}

type fakeTxStore struct {
	upserted  [][]models.Transaction
	upsertErr error
}

func (f *fakeTxStore) UpsertBatch(ctx context.Context, uid string, txs []models.Transaction) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, txs)
	return nil
}

// --- tests ---

func TestFetchNormalizesSignCategoryAndType(t *testing.T) {
	pl := &fakeTxClient{pages: map[string][]dto.BankTransaction{
		"at-1": {
			{TransactionID: "t1", AccountID: "acc-1", Amount: 42.5, Date: "2024-03-01",
				Name: "Coffee Shop", Categories: []string{"Food and Drink", "Coffee"}, MerchantName: "Brew Co"},
			{TransactionID: "t2", AccountID: "acc-1", Amount: -1500, Date: "2024-03-02",
				Name: "Paycheck"},
		},
	}}
	items := &fakeItemLister{items: []*models.LinkedItem{{ItemID: "item-1", AccessToken: "at-1"}}}
	txs := &fakeTxStore{}

	svc := NewTransactionService(pl, items, txs)
	got, err := svc.Fetch(helpers.TestCtx(), "uid-1", "2024-01-01", "2024-04-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}

	expense := got[0]
	if expense.Amount != -42.5 {
		t.Fatalf("expected sign-inverted amount -42.5, got %v", expense.Amount)
	}
	if expense.Type != "expense" {
		t.Fatalf("positive source amount must yield type expense, got %q", expense.Type)
	}
	if expense.Category != "Food and Drink" {
		t.Fatalf("category must be the first source category, got %q", expense.Category)
	}
	if expense.Description != "Coffee Shop" || expense.MerchantName != "Brew Co" {
		t.Fatalf("unexpected descriptive fields: %+v", expense)
	}

	income := got[1]
	if income.Amount != 1500 {
		t.Fatalf("expected sign-inverted amount 1500, got %v", income.Amount)
	}
	if income.Type != "income" {
		t.Fatalf("negative source amount must yield type income, got %q", income.Type)
	}
	if income.Category != "Other" {
		t.Fatalf("empty source category list must default to Other, got %q", income.Category)
	}
}

func TestFetchDefaultsDateRange(t *testing.T) {
	pl := &fakeTxClient{pages: map[string][]dto.BankTransaction{}}
	items := &fakeItemLister{items: []*models.LinkedItem{{ItemID: "item-1", AccessToken: "at-1"}}}
	txs := &fakeTxStore{}

	svc := NewTransactionService(pl, items, txs)
	svc.clockNow = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }

	_, err := svc.Fetch(helpers.TestCtx(), "uid-1", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pl.ranges) != 1 {
		t.Fatalf("expected one aggregator call, got %d", len(pl.ranges))
	}
	if pl.ranges[0][0] != "2023-01-01" {
		t.Fatalf("default start date wrong: %q", pl.ranges[0][0])
	}
	if pl.ranges[0][1] != "2024-06-15" {
		t.Fatalf("default end date must be today: %q", pl.ranges[0][1])
	}
}

func TestFetchConcatenatesAcrossItemsWithOneBatchEach(t *testing.T) {
	pl := &fakeTxClient{pages: map[string][]dto.BankTransaction{
		"at-1": {{TransactionID: "t1", Amount: 1}},
		"at-2": {{TransactionID: "t2", Amount: 2}, {TransactionID: "t3", Amount: 3}},
	}}
	items := &fakeItemLister{items: []*models.LinkedItem{
		{ItemID: "item-1", AccessToken: "at-1"},
		{ItemID: "item-2", AccessToken: "at-2"},
	}}
	txs := &fakeTxStore{}

	svc := NewTransactionService(pl, items, txs)
	got, err := svc.Fetch(helpers.TestCtx(), "uid-1", "2024-01-01", "2024-02-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected concatenation of 3 transactions, got %d", len(got))
	}
	if len(txs.upserted) != 2 {
		t.Fatalf("expected one upsert batch per item, got %d", len(txs.upserted))
	}
	if len(txs.upserted[0]) != 1 || len(txs.upserted[1]) != 2 {
		t.Fatalf("unexpected batch sizes: %d, %d", len(txs.upserted[0]), len(txs.upserted[1]))
	}
}

func TestFetchKeepsExternalIDAsIdempotencyKey(t *testing.T) {
	pl := &fakeTxClient{pages: map[string][]dto.BankTransaction{
		"at-1": {{TransactionID: "ext-99", AccountID: "acc-1", Amount: 5}},
	}}
	items := &fakeItemLister{items: []*models.LinkedItem{{ItemID: "item-1", AccessToken: "at-1"}}}
	txs := &fakeTxStore{}

	svc := NewTransactionService(pl, items, txs)
	got, err := svc.Fetch(helpers.TestCtx(), "uid-1", "2024-01-01", "2024-02-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].TransactionID != "ext-99" {
		t.Fatalf("stored id must be the external transaction id, got %q", got[0].TransactionID)
	}
}

func TestFetchPropagatesListError(t *testing.T) {
	items := &fakeItemLister{err: errors.New("list failed")}
	svc := NewTransactionService(&fakeTxClient{}, items, &fakeTxStore{})

	_, err := svc.Fetch(helpers.TestCtx(), "uid-1", "", "")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestFetchPropagatesAggregatorError(t *testing.T) {
	pl := &fakeTxClient{err: errors.New("plaid failed")}
	items := &fakeItemLister{items: []*models.LinkedItem{{ItemID: "item-1", AccessToken: "at-1"}}}
	svc := NewTransactionService(pl, items, &fakeTxStore{})

	_, err := svc.Fetch(helpers.TestCtx(), "uid-1", "", "")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestFetchPropagatesUpsertError(t *testing.T) {
	pl := &fakeTxClient{pages: map[string][]dto.BankTransaction{
		"at-1": {{TransactionID: "t1"}},
	}}
	items := &fakeItemLister{items: []*models.LinkedItem{{ItemID: "item-1", AccessToken: "at-1"}}}
	txs := &fakeTxStore{upsertErr: errors.New("upsert failed")}
	svc := NewTransactionService(pl, items, txs)

	_, err := svc.Fetch(helpers.TestCtx(), "uid-1", "", "")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestNormalizeZeroAmountIsIncome(t *testing.T) {
	// zero is not positive, so the pre-inversion sign rule makes it income
	tx := normalize(dto.BankTransaction{TransactionID: "t0", Amount: 0}, time.Unix(0, 0))
	if tx.Type != "income" {
		t.Fatalf("zero amount must map to income, got %q", tx.Type)
	}
	if tx.Amount != 0 {
		t.Fatalf("zero amount must stay zero, got %v", tx.Amount)
	}
}
