package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/asandoval/fintrack-backend/internal/errs"
	"github.com/asandoval/fintrack-backend/internal/models"
)

type accountStore struct {
	client *firestore.Client
}

func NewAccountStore(client *firestore.Client) *accountStore {
	return &accountStore{client: client}
}

func (s *accountStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("accounts")
}

func (s *accountStore) Create(ctx context.Context, uid string, account *models.Account) error {
	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	if _, err := s.collection(uid).Doc(account.AccountID).Set(ctx, account); err != nil {
		return errs.NewDatabaseError("create", "failed to save account", err)
	}
	return nil
}

func (s *accountStore) List(ctx context.Context, uid string) ([]*models.Account, error) {
	docs, err := s.collection(uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list accounts", err)
	}
	accounts := make([]*models.Account, 0, len(docs))
	for _, d := range docs {
		var a models.Account
		if err := d.DataTo(&a); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse account data", err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, nil
}

// UpdateBalances overwrites only the balance fields and updatedAt, leaving
// the rest of the document alone. Returns the raw Firestore error so callers
// can distinguish a missing document by its NotFound status.
func (s *accountStore) UpdateBalances(ctx context.Context, uid, accountID string, balance, available float64) error {
	_, err := s.collection(uid).Doc(accountID).Update(ctx, []firestore.Update{
		{Path: "balance", Value: balance},
		{Path: "available", Value: available},
		{Path: "updatedAt", Value: time.Now()},
	})
	return err
}
