package models

import (
	"time"
)

// LinkedItem is one bank connection. AccessToken is KMS ciphertext in
// Firestore; the store decrypts on read. Items are immutable after creation.
type LinkedItem struct {
	ItemID      string    `firestore:"itemId" json:"itemId"`
	AccessToken string    `firestore:"accessToken" json:"-"`
	AccountIDs  []string  `firestore:"accountIds" json:"accountIds"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
}
