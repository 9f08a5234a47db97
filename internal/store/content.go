package store

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/asandoval/fintrack-backend/internal/errs"
)

const contentItemsCollection = "items"

type contentStore struct {
	client *firestore.Client
}

func NewContentStore(client *firestore.Client) *contentStore {
	return &contentStore{client: client}
}

// Content lives under content/{collection}/items/{itemID}. The collection
// name is caller-supplied; the fixed "content" root keeps admin-curated
// documents out of the user tree.
func (s *contentStore) items(collection string) *firestore.CollectionRef {
	return s.client.Collection("content").Doc(collection).Collection(contentItemsCollection)
}

func (s *contentStore) Create(ctx context.Context, collection, uid string, data map[string]any) (string, error) {
	doc := s.items(collection).NewDoc()

	payload := make(map[string]any, len(data)+2)
	for k, v := range data {
		payload[k] = v
	}
	payload["createdBy"] = uid
	payload["createdAt"] = firestore.ServerTimestamp

	if _, err := doc.Create(ctx, payload); err != nil {
		return "", errs.NewDatabaseError("create", "failed to create content item", err)
	}
	return doc.ID, nil
}

func (s *contentStore) Update(ctx context.Context, collection, uid, itemID string, data map[string]any) error {
	payload := make(map[string]any, len(data)+2)
	for k, v := range data {
		payload[k] = v
	}
	payload["updatedBy"] = uid
	payload["updatedAt"] = firestore.ServerTimestamp

	if _, err := s.items(collection).Doc(itemID).Set(ctx, payload, firestore.MergeAll); err != nil {
		return errs.NewDatabaseError("update", "failed to update content item", err)
	}
	return nil
}

func (s *contentStore) Delete(ctx context.Context, collection, itemID string) error {
	if _, err := s.items(collection).Doc(itemID).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete content item", err)
	}
	return nil
}

func (s *contentStore) List(ctx context.Context, collection string) ([]map[string]any, error) {
	docs, err := s.items(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list content items", err)
	}

	items := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		item := d.Data()
		item["id"] = d.Ref.ID
		items = append(items, item)
	}
	return items, nil
}
