// Package territory provides the client for the contested-zone lookup that
// feeds the territory bonus.
package territory

import (
	"context"
	"errors"
	"os"

	uuid "github.com/satori/go.uuid"

	"github.com/vendwars/vote-ledger/clients"
)

// Client abstracts over the underlying client
type Client interface {
	// IsZoneContested reports whether the vendor's zone is currently contested
	IsZoneContested(ctx context.Context, vendorID uuid.UUID) (bool, error)
}

// HTTPClient wraps http.Client for interacting with the territory service
type HTTPClient struct {
	client *clients.SimpleHTTPClient
}

// New returns a new HTTPClient, retrieving the base URL from the environment
func New() (Client, error) {
	serverEnvKey := "TERRITORY_SERVICE"
	serverURL := os.Getenv(serverEnvKey)
	if len(serverURL) == 0 {
		return nil, errors.New(serverEnvKey + " was empty")
	}

	client, err := clients.New(serverURL, os.Getenv("TERRITORY_TOKEN"))
	if err != nil {
		return nil, err
	}
	return NewClientWithPrometheus(&HTTPClient{client}, "territory_client"), nil
}

// ZoneResponse is the territory service's answer to a zone lookup
type ZoneResponse struct {
	VendorID  string `json:"vendorId"`
	Contested bool   `json:"contested"`
}

// IsZoneContested looks up the contested flag for the vendor's zone
func (c *HTTPClient) IsZoneContested(ctx context.Context, vendorID uuid.UUID) (bool, error) {
	req, err := c.client.NewRequest(ctx, "GET", "v1/zones/"+vendorID.String()+"/contested", nil)
	if err != nil {
		return false, err
	}

	var resp ZoneResponse
	_, err = c.client.Do(ctx, req, &resp)
	if err != nil {
		return false, err
	}

	return resp.Contested, nil
}
