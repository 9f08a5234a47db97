package plaidclient

import (
	"context"

	"github.com/plaid/plaid-go/v24/plaid"

	"github.com/asandoval/fintrack-backend/internal/dto"
	"github.com/asandoval/fintrack-backend/internal/errs"
)

// linkWebhookURL is registered on every link token. The webhook endpoint is
// not served yet; TODO: wire it up once item-removed webhooks are handled.
const linkWebhookURL = "https://app.fintrack.dev/api/plaid/webhook"

const transactionsPageSize = 500

type Adapter struct {
	client *plaid.APIClient
}

// NewAdapter builds the single shared Plaid client. Missing credentials are a
// configuration error; there is nothing sensible to do without them.
func NewAdapter(clientID, secret string, env dto.PlaidEnvironment) (*Adapter, error) {
	if clientID == "" || secret == "" {
		return nil, errs.NewConfigError("plaid client id and secret are required")
	}

	cfg := plaid.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	cfg.AddDefaultHeader("PLAID-SECRET", secret)
	cfg.UseEnvironment(toPlaidEnv(env))

	return &Adapter{
		client: plaid.NewAPIClient(cfg),
	}, nil
}

func (a *Adapter) CreateLinkToken(ctx context.Context, uid string) (dto.LinkTokenResult, error) {
	req := plaid.NewLinkTokenCreateRequest(
		"FinTrack",
		"en",
		[]plaid.CountryCode{plaid.CountryCode("US")},
		plaid.LinkTokenCreateRequestUser{ClientUserId: uid},
	)
	req.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})
	req.SetWebhook(linkWebhookURL)

	resp, _, err := a.client.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*req).Execute()
	if err != nil {
		return dto.LinkTokenResult{}, errs.NewExternalServiceError("plaid", err.Error())
	}
	return dto.LinkTokenResult{
		LinkToken:  resp.GetLinkToken(),
		Expiration: resp.GetExpiration(),
	}, nil
}

func (a *Adapter) ExchangePublicToken(ctx context.Context, publicToken string) (itemID, accessToken string, err error) {
	req := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := a.client.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*req).Execute()
	if err != nil {
		return "", "", errs.NewExternalServiceError("plaid", err.Error())
	}
	return resp.GetItemId(), resp.GetAccessToken(), nil
}

func (a *Adapter) GetAccounts(ctx context.Context, accessToken string) ([]dto.BankAccount, error) {
	req := plaid.NewAccountsGetRequest(accessToken)
	resp, _, err := a.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*req).Execute()
	if err != nil {
		return nil, errs.NewExternalServiceError("plaid", err.Error())
	}

	raw := resp.GetAccounts()
	accounts := make([]dto.BankAccount, 0, len(raw))
	for _, acct := range raw {
		balances := acct.GetBalances()
		accounts = append(accounts, dto.BankAccount{
			AccountID:    acct.GetAccountId(),
			Name:         acct.GetName(),
			OfficialName: acct.GetOfficialName(),
			Type:         string(acct.GetType()),
			Subtype:      string(acct.GetSubtype()),
			Balance:      balances.GetCurrent(),
			Available:    balances.GetAvailable(),
		})
	}
	return accounts, nil
}

// GetTransactions fetches every transaction in [startDate, endDate], paging
// by offset until total_transactions is exhausted.
func (a *Adapter) GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]dto.BankTransaction, error) {
	var transactions []dto.BankTransaction

	for {
		req := plaid.NewTransactionsGetRequest(accessToken, startDate, endDate)
		opts := plaid.NewTransactionsGetRequestOptions()
		opts.SetCount(transactionsPageSize)
		opts.SetOffset(int32(len(transactions)))
		req.SetOptions(*opts)

		resp, _, err := a.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*req).Execute()
		if err != nil {
			return nil, errs.NewExternalServiceError("plaid", err.Error())
		}

		for _, tx := range resp.GetTransactions() {
			transactions = append(transactions, dto.BankTransaction{
				TransactionID: tx.GetTransactionId(),
				AccountID:     tx.GetAccountId(),
				Amount:        tx.GetAmount(),
				Date:          tx.GetDate(),
				Name:          tx.GetName(),
				Categories:    tx.GetCategory(),
				MerchantName:  tx.GetMerchantName(),
			})
		}

		if len(transactions) >= int(resp.GetTotalTransactions()) || len(resp.GetTransactions()) == 0 {
			return transactions, nil
		}
	}
}

func toPlaidEnv(env dto.PlaidEnvironment) plaid.Environment {
	switch env {
	case dto.PlaidDevelopment:
		return plaid.Development
	case dto.PlaidProduction:
		return plaid.Production
	default: // dto.PlaidSandbox
		return plaid.Sandbox
	}
}
