package dto

import "time"

type PlaidEnvironment string

const (
	PlaidSandbox     PlaidEnvironment = "sandbox"
	PlaidDevelopment PlaidEnvironment = "development"
	PlaidProduction  PlaidEnvironment = "production"
)

// LinkTokenResult is the aggregator's link-token payload.
type LinkTokenResult struct {
	LinkToken  string    `json:"linkToken"`
	Expiration time.Time `json:"expiration"`
}

// BankAccount is one account as the aggregator returns it, before it becomes
// a stored Account document.
type BankAccount struct {
	AccountID    string
	Name         string
	OfficialName string
	Type         string
	Subtype      string
	Balance      float64
	Available    float64
}

// BankTransaction is one transaction as the aggregator returns it. Amounts
// keep the aggregator's sign convention (positive = money out).
type BankTransaction struct {
	TransactionID string
	AccountID     string
	Amount        float64
	Date          string
	Name          string
	Categories    []string
	MerchantName  string
}
