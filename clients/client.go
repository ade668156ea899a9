// Package clients provides a shared JSON HTTP client for external collaborators
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vendwars/vote-ledger/utils/closers"
)

// SimpleHTTPClient wraps http.Client for making simple token authorized requests
type SimpleHTTPClient struct {
	BaseURL   *url.URL
	AuthToken string

	client *http.Client
}

// New returns a new SimpleHTTPClient for the given base URL and auth token
func New(serverURL string, authToken string) (*SimpleHTTPClient, error) {
	baseURL, err := url.Parse(serverURL)
	if err != nil {
		return nil, err
	}

	return &SimpleHTTPClient{
		BaseURL:   baseURL,
		AuthToken: authToken,
		client: &http.Client{
			Timeout: time.Second * 10,
		},
	}, nil
}

func (c *SimpleHTTPClient) newRequest(
	method string,
	resolvedURL string,
	buf io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequest(method, resolvedURL, buf)
	if err != nil {
		switch err.(type) {
		case url.EscapeError:
			err = NewHTTPError(err, resolvedURL, ErrUnableToEscapeURL, http.StatusBadRequest, nil)
		case url.InvalidHostError:
			err = NewHTTPError(err, resolvedURL, ErrInvalidHost, http.StatusBadRequest, nil)
		default:
			err = NewHTTPError(err, resolvedURL, ErrMalformedRequest, http.StatusBadRequest, nil)
		}
		return nil, err
	}
	return req, nil
}

// NewRequest creates a request, JSON encoding the body passed
func (c *SimpleHTTPClient) NewRequest(
	ctx context.Context,
	method,
	path string,
	body interface{},
) (*http.Request, error) {
	var buf io.ReadWriter
	resolvedURL := c.BaseURL.ResolveReference(&url.URL{Path: path})

	if body != nil {
		buf = new(bytes.Buffer)
		err := json.NewEncoder(buf).Encode(body)
		if err != nil {
			return nil, NewHTTPError(err, path, ErrUnableToEncodeBody, 0, nil)
		}
	}

	req, err := c.newRequest(method, resolvedURL.String(), buf)
	if err != nil {
		return req, err
	}
	req = req.WithContext(ctx)

	req.Header.Set("accept", "application/json")
	if body != nil {
		req.Header.Add("content-type", "application/json")
	}

	logger := log.Ctx(ctx)
	logger.Debug().Str("type", "http.Request").Str("method", method).Str("url", resolvedURL.String()).Msg("outgoing request")

	if len(c.AuthToken) > 0 {
		req.Header.Set("authorization", "Bearer "+c.AuthToken)
	}

	return req, nil
}

// Do the specified http request, decoding the JSON result into v
func (c *SimpleHTTPClient) Do(ctx context.Context, req *http.Request, v interface{}) (*http.Response, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, NewHTTPError(err, req.URL.Path, ErrProtocolError, 0, nil)
	}
	defer closers.Log(ctx, resp.Body)

	status := resp.StatusCode
	logger := log.Ctx(ctx)
	logger.Debug().Str("type", "http.Response").Int("status", status).Str("path", req.URL.Path).Msg("response received")

	if status >= 200 && status <= 299 {
		if v != nil {
			err = json.NewDecoder(resp.Body).Decode(v)
			if err != nil {
				return resp, NewHTTPError(err, req.URL.Path, ErrUnableToDecode, resp.StatusCode, v)
			}
		}
		return resp, nil
	}

	var body interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp, NewHTTPError(err, req.URL.Path, ErrProtocolError, resp.StatusCode, body)
}
