package models

import (
	"time"
)

// Account is a denormalized projection of one bank account. Balance fields
// are overwritten by the balance refresh flow; everything else is set once
// at link time.
type Account struct {
	AccountID    string    `firestore:"accountId" json:"accountId"` // aggregator account_id (doc ID)
	Name         string    `firestore:"name" json:"name"`
	OfficialName string    `firestore:"officialName" json:"officialName,omitempty"`
	Type         string    `firestore:"type" json:"type"`
	Subtype      string    `firestore:"subtype" json:"subtype,omitempty"`
	Balance      float64   `firestore:"balance" json:"balance"`
	Available    float64   `firestore:"available" json:"available"`
	ItemID       string    `firestore:"itemId" json:"itemId"`
	CreatedAt    time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `firestore:"updatedAt" json:"updatedAt"`
}
