package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/asandoval/fintrack-backend/internal/errs"
	"github.com/asandoval/fintrack-backend/internal/models"
)

const transactionsCollection = "transactions"

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection(transactionsCollection)
}

// UpsertBatch merge-writes every transaction keyed by its external id.
// Re-ingesting the same id is a no-op merge, which is what makes ingestion
// idempotent.
func (s *transactionStore) UpsertBatch(ctx context.Context, uid string, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(txs))
	now := time.Now()

	for _, t := range txs {
		t.UpdatedAt = now
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}

		doc := s.collection(uid).Doc(t.TransactionID)
		job, err := bw.Set(doc, t, firestore.MergeAll)
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("update", "failed to schedule transaction upsert", err)
		}
		jobs = append(jobs, job)
	}

	// Flush and close the writer, then wait on each job for errors.
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errs.NewDatabaseError("update", "failed to upsert transaction batch", err)
		}
	}

	return nil
}
