package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/asandoval/fintrack-backend/internal/bootstrap"
	identityclient "github.com/asandoval/fintrack-backend/internal/client/identity"
	"github.com/asandoval/fintrack-backend/internal/config"
	"github.com/asandoval/fintrack-backend/internal/crypto"
	"github.com/asandoval/fintrack-backend/internal/jobs"
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

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
	identity := identityclient.NewAdapter(bs.Firebase)

	// stores
	istore := store.NewItemStore(bs.Firestore, kmsHelper)
	tstore := store.NewTransactionStore(bs.Firestore)

	// services
	txserv := services.NewTransactionService(bs.Plaid, istore, tstore)

	syncer := jobs.NewSyncer(bs.Log, identity, txserv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = syncer.RunEvery(ctx, cfg.SyncInterval)
	if err != nil && !errors.Is(err, context.Canceled) {
		exitOnError("sync job failed", err, bs.Log)
	}
}
