package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/asandoval/fintrack-backend/internal/bootstrap"
	identityclient "github.com/asandoval/fintrack-backend/internal/client/identity"
	"github.com/asandoval/fintrack-backend/internal/config"
	"github.com/asandoval/fintrack-backend/internal/crypto"
	"github.com/asandoval/fintrack-backend/internal/handlers"
	"github.com/asandoval/fintrack-backend/internal/response"
	"github.com/asandoval/fintrack-backend/internal/router"
	"github.com/asandoval/fintrack-backend/internal/services"
	"github.com/asandoval/fintrack-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg, err := config.New()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	adminKey, err := bs.AdminKey(context.Background(), cfg)
	exitOnError("admin key resolution failed", err, bs.Log)

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
	identity := identityclient.NewAdapter(bs.Firebase)

	// stores
	istore := store.NewItemStore(bs.Firestore, kmsHelper)
	astore := store.NewAccountStore(bs.Firestore)
	tstore := store.NewTransactionStore(bs.Firestore)
	cstore := store.NewContentStore(bs.Firestore)
	sstore := store.NewSettingsStore(bs.Firestore)
	ststore := store.NewStatsStore(bs.Firestore)

	// services
	plserv := services.NewPlaidService(bs.Plaid, istore, astore)
	txserv := services.NewTransactionService(bs.Plaid, istore, tstore)
	acserv := services.NewAccountService(bs.Plaid, istore, astore)
	adserv := services.NewAdminService(identity, ststore, adminKey)
	coserv := services.NewContentService(cstore, sstore)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.PlaidSvc = plserv
	deps.TransactionSvc = txserv
	deps.AccountSvc = acserv
	deps.AdminSvc = adserv
	deps.ContentSvc = coserv

	// router
	r := router.NewRouter(deps)
	err = http.ListenAndServe(":"+cfg.Port, r)
	exitOnError("server start failed", err, bs.Log)
}
