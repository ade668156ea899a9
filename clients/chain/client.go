// Package chain provides the client for the external settlement ledger.
// The settlement layer is reachable only via submit-and-poll semantics: a
// transfer may land on chain without the acknowledgment reaching us.
package chain

import (
	"context"
	"errors"
	"os"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"

	"github.com/vendwars/vote-ledger/clients"
)

// ErrTransferNotAccepted - the settlement layer rejected the transfer outright
var ErrTransferNotAccepted = errors.New("chain transfer was not accepted")

// Client abstracts over the underlying client
type Client interface {
	// Transfer submits a token transfer to the settlement ledger
	Transfer(ctx context.Context, recipient string, amount decimal.Decimal, reference uuid.UUID) (*TransferResponse, error)
	// BalanceOf reads the authoritative token balance of the recipient
	BalanceOf(ctx context.Context, recipient string) (decimal.Decimal, error)
}

// HTTPClient wraps http.Client for interacting with the settlement ledger
type HTTPClient struct {
	client *clients.SimpleHTTPClient
}

// New returns a new HTTPClient, retrieving the base URL from the environment
func New() (Client, error) {
	serverEnvKey := "CHAIN_SERVICE"
	serverURL := os.Getenv(serverEnvKey)
	if len(serverURL) == 0 {
		return nil, errors.New(serverEnvKey + " was empty")
	}

	client, err := clients.New(serverURL, os.Getenv("CHAIN_TOKEN"))
	if err != nil {
		return nil, err
	}
	return NewClientWithPrometheus(&HTTPClient{client}, "chain_client"), nil
}

// TransferRequest is a single transfer submission to the settlement ledger
type TransferRequest struct {
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// TransferResponse is the settlement ledger's answer to a transfer submission
type TransferResponse struct {
	TxRef    string `json:"txRef"`
	Accepted bool   `json:"accepted"`
}

// BalanceResponse is the settlement ledger's answer to a balance read
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// Transfer submits one transfer for the batch total; the reference doubles as
// an idempotency hint for settlement layers that honor one
func (c *HTTPClient) Transfer(ctx context.Context, recipient string, amount decimal.Decimal, reference uuid.UUID) (*TransferResponse, error) {
	req, err := c.client.NewRequest(ctx, "POST", "v1/transfers", TransferRequest{
		Recipient: recipient,
		Amount:    amount,
		Reference: reference.String(),
	})
	if err != nil {
		return nil, err
	}

	var resp TransferResponse
	_, err = c.client.Do(ctx, req, &resp)
	if err != nil {
		return nil, err
	}

	if !resp.Accepted {
		return nil, ErrTransferNotAccepted
	}

	return &resp, nil
}

// BalanceOf reads the recipient's balance from the settlement ledger
func (c *HTTPClient) BalanceOf(ctx context.Context, recipient string) (decimal.Decimal, error) {
	req, err := c.client.NewRequest(ctx, "GET", "v1/balances/"+recipient, nil)
	if err != nil {
		return decimal.Zero, err
	}

	var resp BalanceResponse
	_, err = c.client.Do(ctx, req, &resp)
	if err != nil {
		return decimal.Zero, err
	}

	return resp.Balance, nil
}
