package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/asandoval/fintrack-backend/internal/errs"
	"github.com/asandoval/fintrack-backend/internal/models"
)

// linkedItemsCollection must stay distinct from the content item
// subcollection: the stats store counts this name as a collection group.
const linkedItemsCollection = "linked_items"

// tokenCipher encrypts access tokens before they land in Firestore.
type tokenCipher interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type itemStore struct {
	client *firestore.Client
	cipher tokenCipher
}

func NewItemStore(client *firestore.Client, cipher tokenCipher) *itemStore {
	return &itemStore{client: client, cipher: cipher}
}

func (s *itemStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection(linkedItemsCollection)
}

// Create writes one linked item keyed by its item id. The access token is
// encrypted; the caller passes plaintext and never sees the ciphertext.
func (s *itemStore) Create(ctx context.Context, uid string, item *models.LinkedItem) error {
	encrypted, err := s.cipher.Encrypt(ctx, item.AccessToken)
	if err != nil {
		return err
	}

	stored := *item
	stored.AccessToken = encrypted
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	if _, err := s.collection(uid).Doc(item.ItemID).Set(ctx, stored); err != nil {
		return errs.NewDatabaseError("create", "failed to save linked item", err)
	}
	return nil
}

// List returns all of a user's linked items with access tokens decrypted.
func (s *itemStore) List(ctx context.Context, uid string) ([]*models.LinkedItem, error) {
	docs, err := s.collection(uid).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list linked items", err)
	}

	items := make([]*models.LinkedItem, 0, len(docs))
	for _, d := range docs {
		var item models.LinkedItem
		if err := d.DataTo(&item); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse linked item data", err)
		}
		item.AccessToken, err = s.cipher.Decrypt(ctx, item.AccessToken)
		if err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, nil
}
