package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/errs"
	"github.com/asandoval/fintrack-backend/internal/response"
)

type AdminService interface {
	GrantAdmin(ctx context.Context, email, key string) (string, error)
	IsAdmin(ctx context.Context, uid string) (bool, error)
	ListUsers(ctx context.Context) ([]dto.ProviderUser, error)
	SetUserDisabled(ctx context.Context, uid string, disable bool) error
	PlatformStats(ctx context.Context) (dto.PlatformStats, error)
}

type adminHandlers struct {
	ResponseHandler response.ResponseHandler
	AdminSvc        AdminService
}

func NewAdminHandlers(deps *Deps) *adminHandlers {
	return &adminHandlers{
		ResponseHandler: deps.ResponseHandler,
		AdminSvc:        deps.AdminSvc,
	}
}

// GrantAdmin is key-gated, not claim-gated: it is how the first admin comes
// to exist.
func (h *adminHandlers) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		AdminKey string `json:"adminKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if body.Email == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("email is required"))
		return
	}
	if body.AdminKey == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("adminKey is required"))
		return
	}

	uid, err := h.AdminSvc.GrantAdmin(r.Context(), body.Email, body.AdminKey)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "admin role granted",
		"uid":     uid,
	})
}

func (h *adminHandlers) CheckStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UID string `json:"uid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if body.UID == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("uid is required"))
		return
	}

	isAdmin, err := h.AdminSvc.IsAdmin(r.Context(), body.UID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"isAdmin": isAdmin,
	})
}

func (h *adminHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.AdminSvc.ListUsers(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if users == nil {
		users = []dto.ProviderUser{}
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}

func (h *adminHandlers) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UID     string `json:"uid"`
		Disable bool   `json:"disable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if body.UID == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("uid is required"))
		return
	}

	if err := h.AdminSvc.SetUserDisabled(r.Context(), body.UID, body.Disable); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	message := "user enabled"
	if body.Disable {
		message = "user disabled"
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
	})
}

func (h *adminHandlers) PlatformStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.AdminSvc.PlatformStats(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}
