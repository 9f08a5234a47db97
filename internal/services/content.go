package services

import (
	"context"

	"github.com/asandoval/fintrack-backend/internal/errs"
	"github.com/asandoval/fintrack-backend/internal/models"
	"github.com/asandoval/fintrack-backend/pkg/logger"
)

type contentCSStore interface {
	Create(ctx context.Context, collection, uid string, data map[string]any) (string, error)
	Update(ctx context.Context, collection, uid, itemID string, data map[string]any) error
	Delete(ctx context.Context, collection, itemID string) error
	List(ctx context.Context, collection string) ([]map[string]any, error)
}

type settingsCSStore interface {
	Get(ctx context.Context) (map[string]any, error)
	Save(ctx context.Context, uid string, settings map[string]any) error
}

type contentService struct {
	content  contentCSStore
	settings settingsCSStore
}

func NewContentService(content contentCSStore, settings settingsCSStore) *contentService {
	return &contentService{
		content:  content,
		settings: settings,
	}
}

// Manage dispatches one content mutation. Only create, update, and delete are
// valid actions; update and delete require an item id. Returns the item id
// the mutation applied to.
func (s *contentService) Manage(ctx context.Context, uid, action, collection, itemID string, data map[string]any) (string, error) {
	if collection == "" {
		return "", errs.NewValidationError("collection is required")
	}

	log := logger.FromContext(ctx)

	switch action {
	case "create":
		if len(data) == 0 {
			return "", errs.NewValidationError("itemData is required for create")
		}
		id, err := s.content.Create(ctx, collection, uid, data)
		if err != nil {
			return "", err
		}
		log.Info("content item created", "collection", collection, "item_id", id)
		return id, nil

	case "update":
		if itemID == "" {
			return "", errs.NewValidationError("itemId is required for update")
		}
		if len(data) == 0 {
			return "", errs.NewValidationError("itemData is required for update")
		}
		if err := s.content.Update(ctx, collection, uid, itemID, data); err != nil {
			return "", err
		}
		log.Info("content item updated", "collection", collection, "item_id", itemID)
		return itemID, nil

	case "delete":
		if itemID == "" {
			return "", errs.NewValidationError("itemId is required for delete")
		}
		if err := s.content.Delete(ctx, collection, itemID); err != nil {
			return "", err
		}
		log.Info("content item deleted", "collection", collection, "item_id", itemID)
		return itemID, nil

	default:
		return "", errs.NewValidationError("action must be create, update, or delete")
	}
}

func (s *contentService) Items(ctx context.Context, collection string) ([]map[string]any, error) {
	if collection == "" {
		return nil, errs.NewValidationError("collection is required")
	}
	return s.content.List(ctx, collection)
}

func (s *contentService) SaveSettings(ctx context.Context, uid string, settings map[string]any) error {
	if len(settings) == 0 {
		return errs.NewValidationError("settings is required")
	}
	if err := s.settings.Save(ctx, uid, settings); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info("site settings saved")
	return nil
}

// Settings returns the stored document verbatim, or the defaults when no
// settings have been saved yet.
func (s *contentService) Settings(ctx context.Context) (map[string]any, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return models.DefaultSiteSettings(), nil
	}
	return settings, nil
}
