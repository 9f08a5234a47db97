package services

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/models"
	"github.com/asandoval/fintrack-backend/pkg/logger"
)

type plaidBalanceClient interface {
	GetAccounts(ctx context.Context, accessToken string) ([]dto.BankAccount, error)
}

type itemASStore interface {
	List(ctx context.Context, uid string) ([]*models.LinkedItem, error)
}

type accountASStore interface {
	List(ctx context.Context, uid string) ([]*models.Account, error)
	UpdateBalances(ctx context.Context, uid, accountID string, balance, available float64) error
}

type accountService struct {
	plaid    plaidBalanceClient
	items    itemASStore
	accounts accountASStore
}

func NewAccountService(plaid plaidBalanceClient, items itemASStore, accounts accountASStore) *accountService {
	return &accountService{
		plaid:    plaid,
		items:    items,
		accounts: accounts,
	}
}

func (s *accountService) ListAccounts(ctx context.Context, uid string) ([]*models.Account, error) {
	return s.accounts.List(ctx, uid)
}

// RefreshBalances re-fetches balances for every linked item and overwrites
// the balance fields on the stored accounts. An account that no longer exists
// in Firestore is skipped with a warning rather than failing the refresh.
func (s *accountService) RefreshBalances(ctx context.Context, uid string) (int, error) {
	log := logger.FromContext(ctx)

	items, err := s.items.List(ctx, uid)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, item := range items {
		bankAccounts, err := s.plaid.GetAccounts(ctx, item.AccessToken)
		if err != nil {
			return updated, err
		}

		for _, a := range bankAccounts {
			err := s.accounts.UpdateBalances(ctx, uid, a.AccountID, a.Balance, a.Available)
			if status.Code(err) == codes.NotFound {
				log.Warn("account document missing, skipping balance update",
					"account_id", a.AccountID, "item_id", item.ItemID)
				continue
			}
			if err != nil {
				return updated, err
			}
			updated++
		}
	}

	log.Info("balances refreshed", "item_count", len(items), "accounts_updated", updated)
	return updated, nil
}
