package services

import (
	"context"
	"time"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/models"
	"github.com/asandoval/fintrack-backend/pkg/logger"
)

// --- Dependencies (minimal interfaces scoped to this service) ---

type plaidLinkClient interface {
	CreateLinkToken(ctx context.Context, uid string) (dto.LinkTokenResult, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (itemID string, accessToken string, err error)
	GetAccounts(ctx context.Context, accessToken string) ([]dto.BankAccount, error)
}

type itemPSStore interface {
	Create(ctx context.Context, uid string, item *models.LinkedItem) error
}

type accountPSStore interface {
	Create(ctx context.Context, uid string, account *models.Account) error
}

type plaidService struct {
	plaid    plaidLinkClient
	items    itemPSStore
	accounts accountPSStore
	clockNow func() time.Time
}

func NewPlaidService(plaid plaidLinkClient, items itemPSStore, accounts accountPSStore) *plaidService {
	return &plaidService{
		plaid:    plaid,
		items:    items,
		accounts: accounts,
		clockNow: time.Now,
	}
}

func (s *plaidService) CreateLinkToken(ctx context.Context, uid string) (dto.LinkTokenResult, error) {
	return s.plaid.CreateLinkToken(ctx, uid)
}

// ExchangePublicToken swaps the public token for a durable access token,
// fetches the item's accounts, and persists one item document plus one
// account document per bank account. The two write classes are not
// transactional; the item lands first.
func (s *plaidService) ExchangePublicToken(ctx context.Context, uid, publicToken string) ([]*models.Account, error) {
	itemID, accessToken, err := s.plaid.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, err
	}

	bankAccounts, err := s.plaid.GetAccounts(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	now := s.clockNow()

	accountIDs := make([]string, 0, len(bankAccounts))
	for _, a := range bankAccounts {
		accountIDs = append(accountIDs, a.AccountID)
	}

	item := &models.LinkedItem{
		ItemID:      itemID,
		AccessToken: accessToken,
		AccountIDs:  accountIDs,
		CreatedAt:   now,
	}
	if err := s.items.Create(ctx, uid, item); err != nil {
		return nil, err
	}

	accounts := make([]*models.Account, 0, len(bankAccounts))
	for _, a := range bankAccounts {
		account := &models.Account{
			AccountID:    a.AccountID,
			Name:         a.Name,
			OfficialName: a.OfficialName,
			Type:         a.Type,
			Subtype:      a.Subtype,
			Balance:      a.Balance,
			Available:    a.Available,
			ItemID:       itemID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.accounts.Create(ctx, uid, account); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	log := logger.FromContext(ctx)
	log.Info("bank linked", "item_id", itemID, "account_count", len(accounts))
	return accounts, nil
}
