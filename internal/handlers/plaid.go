package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/errs"
	"github.com/asandoval/fintrack-backend/internal/models"
	"github.com/asandoval/fintrack-backend/internal/response"
)

type PlaidService interface {
	CreateLinkToken(ctx context.Context, uid string) (dto.LinkTokenResult, error)
	ExchangePublicToken(ctx context.Context, uid, publicToken string) ([]*models.Account, error)
}

type TransactionService interface {
	Fetch(ctx context.Context, uid, startDate, endDate string) ([]models.Transaction, error)
}

type AccountService interface {
	RefreshBalances(ctx context.Context, uid string) (int, error)
}

type plaidHandlers struct {
	ResponseHandler response.ResponseHandler
	PlaidSvc        PlaidService
	TransactionSvc  TransactionService
	AccountSvc      AccountService
}

func NewPlaidHandlers(deps *Deps) *plaidHandlers {
	return &plaidHandlers{
		ResponseHandler: deps.ResponseHandler,
		PlaidSvc:        deps.PlaidSvc,
		TransactionSvc:  deps.TransactionSvc,
		AccountSvc:      deps.AccountSvc,
	}
}

func (h *plaidHandlers) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}

	result, err := h.PlaidSvc.CreateLinkToken(r.Context(), body.UserID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"success":    true,
		"linkToken":  result.LinkToken,
		"expiration": result.Expiration,
	})
}

func (h *plaidHandlers) ExchangePublicToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PublicToken string `json:"publicToken"`
		UserID      string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if body.PublicToken == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("publicToken is required"))
		return
	}
	if body.UserID == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("userId is required"))
		return
	}

	accounts, err := h.PlaidSvc.ExchangePublicToken(r.Context(), body.UserID, body.PublicToken)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"success":  true,
		"accounts": accounts,
		"message":  fmt.Sprintf("linked %d accounts", len(accounts)),
	})
}

func (h *plaidHandlers) FetchTransactions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID    string `json:"userId"`
		StartDate string `json:"startDate,omitempty"`
		EndDate   string `json:"endDate,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if body.UserID == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("userId is required"))
		return
	}

	txs, err := h.TransactionSvc.Fetch(r.Context(), body.UserID, body.StartDate, body.EndDate)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"success":      true,
		"transactions": txs,
		"count":        len(txs),
	})
}

func (h *plaidHandlers) UpdateBalances(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	if body.UserID == "" {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("userId is required"))
		return
	}

	updated, err := h.AccountSvc.RefreshBalances(r.Context(), body.UserID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("updated balances for %d accounts", updated),
	})
}
