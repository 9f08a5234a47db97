package store

import (
	"context"

	"cloud.google.com/go/firestore"
	firestorepb "cloud.google.com/go/firestore/apiv1/firestorepb"

	"github.com/asandoval/fintrack-backend/internal/errs"
)

type statsStore struct {
	client *firestore.Client
}

func NewStatsStore(client *firestore.Client) *statsStore {
	return &statsStore{client: client}
}

func (s *statsStore) CountLinkedItems(ctx context.Context) (int64, error) {
	return s.countGroup(ctx, linkedItemsCollection)
}

func (s *statsStore) CountTransactions(ctx context.Context) (int64, error) {
	return s.countGroup(ctx, transactionsCollection)
}

// countGroup runs a server-side count aggregation over a collection group,
// so stats never pull documents down. A collection group matches every
// subcollection with that ID anywhere in the database, so the counted names
// must not be reused outside the user tree.
func (s *statsStore) countGroup(ctx context.Context, collection string) (int64, error) {
	q := s.client.CollectionGroup(collection).Query
	res, err := q.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("read", "failed to count "+collection, err)
	}
	v, ok := res["total"].(*firestorepb.Value)
	if !ok {
		return 0, nil
	}
	return v.GetIntegerValue(), nil
}
