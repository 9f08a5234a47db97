package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/asandoval/fintrack-backend/internal/errs"
)

type settingsStore struct {
	client *firestore.Client
}

func NewSettingsStore(client *firestore.Client) *settingsStore {
	return &settingsStore{client: client}
}

func (s *settingsStore) doc() *firestore.DocumentRef {
	return s.client.Collection("settings").Doc("site")
}

// Get returns the stored settings document, or nil when none has been saved
// yet. The service layer supplies defaults for the nil case.
func (s *settingsStore) Get(ctx context.Context) (map[string]any, error) {
	snap, err := s.doc().Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read site settings", err)
	}
	return snap.Data(), nil
}

// Save replaces the settings document wholesale.
func (s *settingsStore) Save(ctx context.Context, uid string, settings map[string]any) error {
	payload := make(map[string]any, len(settings)+2)
	for k, v := range settings {
		payload[k] = v
	}
	payload["updatedBy"] = uid
	payload["updatedAt"] = firestore.ServerTimestamp

	if _, err := s.doc().Set(ctx, payload); err != nil {
		return errs.NewDatabaseError("update", "failed to save site settings", err)
	}
	return nil
}
