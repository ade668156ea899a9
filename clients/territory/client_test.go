package territory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vendwars/vote-ledger/clients"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	server := httptest.NewServer(handler)
	simple, err := clients.New(server.URL, "test-token")
	assert.NoError(t, err)
	return &HTTPClient{simple}, server
}

func TestIsZoneContested(t *testing.T) {
	vendorID := uuid.NewV4()

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/v1/zones/"+vendorID.String()+"/contested", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("authorization"))

		w.Header().Set("content-type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(&ZoneResponse{VendorID: vendorID.String(), Contested: true}))
	})
	defer server.Close()

	contested, err := client.IsZoneContested(context.Background(), vendorID)
	assert.NoError(t, err)
	assert.True(t, contested)
}

func TestIsZoneContestedServerError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	contested, err := client.IsZoneContested(context.Background(), uuid.NewV4())
	assert.Error(t, err)
	assert.False(t, contested)
}
