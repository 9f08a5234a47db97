package models

import (
	"time"
)

// Transaction is a normalized ledger entry. Amount is sign-inverted from the
// aggregator (negative = expense) and Type derives from the original,
// pre-inversion sign. TransactionID is the aggregator's id and doubles as the
// idempotency key: upserts merge by doc ID.
type Transaction struct {
	TransactionID string    `firestore:"transactionId" json:"transactionId"` // aggregator transaction_id (doc ID)
	AccountID     string    `firestore:"accountId" json:"accountId"`
	Amount        float64   `firestore:"amount" json:"amount"`
	Date          string    `firestore:"date" json:"date"` // YYYY-MM-DD as the aggregator returns
	Description   string    `firestore:"description" json:"description"`
	Category      string    `firestore:"category" json:"category"`
	Type          string    `firestore:"type" json:"type"` // "expense" | "income"
	MerchantName  string    `firestore:"merchantName" json:"merchantName,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}
