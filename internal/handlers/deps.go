package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/asandoval/fintrack-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client
	PlaidSvc        PlaidService
	TransactionSvc  TransactionService
	AccountSvc      AccountService
	AdminSvc        AdminService
	ContentSvc      ContentService
}
