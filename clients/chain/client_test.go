package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	uuid "github.com/satori/go.uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vendwars/vote-ledger/clients"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	simple, err := clients.New(server.URL, "test-token")
	assert.NoError(t, err)
	return &HTTPClient{simple}, server
}

func TestTransfer(t *testing.T) {
	reference := uuid.NewV4()

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/transfers", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("authorization"))

		var req TransferRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "vendor-wallet", req.Recipient)
		assert.True(t, req.Amount.Equal(decimal.New(40, 0)))
		assert.Equal(t, reference.String(), req.Reference)

		w.Header().Set("content-type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(&TransferResponse{TxRef: "0xabc", Accepted: true}))
	})
	defer server.Close()

	resp, err := client.Transfer(context.Background(), "vendor-wallet", decimal.New(40, 0), reference)
	assert.NoError(t, err)
	assert.Equal(t, "0xabc", resp.TxRef)
}

func TestTransferNotAccepted(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(&TransferResponse{Accepted: false}))
	})
	defer server.Close()

	_, err := client.Transfer(context.Background(), "vendor-wallet", decimal.New(1, 0), uuid.NewV4())
	assert.ErrorIs(t, err, ErrTransferNotAccepted)
}

func TestTransferServerError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	_, err := client.Transfer(context.Background(), "vendor-wallet", decimal.New(1, 0), uuid.NewV4())
	assert.Error(t, err)

	state, ok := clients.UnwrapHTTPState(err)
	assert.True(t, ok, "transport failures carry their http state")
	assert.Equal(t, http.StatusBadGateway, state.Status)
}

func TestBalanceOf(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/v1/balances/vendor-wallet", r.URL.Path)

		w.Header().Set("content-type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(&BalanceResponse{Balance: decimal.New(55, 0)}))
	})
	defer server.Close()

	balance, err := client.BalanceOf(context.Background(), "vendor-wallet")
	assert.NoError(t, err)
	assert.True(t, balance.Equal(decimal.New(55, 0)))
}
