package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/asandoval/fintrack-backend/internal/errs"
	"github.com/asandoval/fintrack-backend/internal/middleware"
	"github.com/asandoval/fintrack-backend/internal/response"
)

type ContentService interface {
	Manage(ctx context.Context, uid, action, collection, itemID string, data map[string]any) (string, error)
	Items(ctx context.Context, collection string) ([]map[string]any, error)
	SaveSettings(ctx context.Context, uid string, settings map[string]any) error
	Settings(ctx context.Context) (map[string]any, error)
}

type contentHandlers struct {
	ResponseHandler response.ResponseHandler
	ContentSvc      ContentService
}

func NewContentHandlers(deps *Deps) *contentHandlers {
	return &contentHandlers{
		ResponseHandler: deps.ResponseHandler,
		ContentSvc:      deps.ContentSvc,
	}
}

func (h *contentHandlers) ManageItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Action     string         `json:"action"`
		Collection string         `json:"collection"`
		ItemID     string         `json:"itemId,omitempty"`
		ItemData   map[string]any `json:"itemData,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	itemID, err := h.ContentSvc.Manage(r.Context(), uid, body.Action, body.Collection, body.ItemID, body.ItemData)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"success": true,
		"itemId":  itemID,
	})
}

// ListItems is open to any authenticated caller; content reads are not
// admin-gated.
func (h *contentHandlers) ListItems(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	items, err := h.ContentSvc.Items(r.Context(), collection)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if items == nil {
		items = []map[string]any{}
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"success": true,
		"items":   items,
		"count":   len(items),
	})
}

func (h *contentHandlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Settings map[string]any `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	uid := middleware.UID(r.Context())
	if err := h.ContentSvc.SaveSettings(r.Context(), uid, body.Settings); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "settings saved",
	})
}

func (h *contentHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.ContentSvc.Settings(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"success":  true,
		"settings": settings,
	})
}
