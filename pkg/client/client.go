// Package client implements the out-of-band side of the gateway's
// callback protocol: polling fetch-callback until the browser has
// delivered a URI for a given request id.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/webcode-dev/webcode/pkg/types"
)

// ErrNotDelivered is returned by a single Fetch when no callback has
// arrived yet.
var ErrNotDelivered = errors.New("callback not delivered yet")

// Poller polls a gateway for a callback URI.
type Poller struct {
	// BaseURL is the gateway origin plus any path prefix, without a
	// trailing slash, e.g. "http://127.0.0.1:9888".
	BaseURL string
	// HTTPClient defaults to a client with a 10s request timeout.
	HTTPClient *http.Client

	// InitialInterval and MaxInterval bound the retry backoff used by
	// Await. Zero values pick the defaults (500ms / 5s).
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (p *Poller) httpClient() *http.Client {
	if p.HTTPClient != nil {
		return p.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

// Fetch performs one fetch-callback check. Returns ErrNotDelivered when
// the gateway has no entry for requestID.
func (p *Poller) Fetch(ctx context.Context, requestID string) (*types.URIComponents, error) {
	if requestID == "" {
		return nil, errors.New("request id required")
	}

	endpoint := fmt.Sprintf("%s/fetch-callback?vscode-requestId=%s", p.BaseURL, url.QueryEscape(requestID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch-callback: unexpected status %d", resp.StatusCode)
	}

	var uri *types.URIComponents
	if err := json.NewDecoder(resp.Body).Decode(&uri); err != nil {
		return nil, err
	}
	if uri == nil {
		return nil, ErrNotDelivered
	}
	return uri, nil
}

// Await polls Fetch with exponential backoff and jitter until the URI
// arrives or ctx is done. The gateway holds no state about waiting
// pollers, so retrying here is the protocol's delivery mechanism.
func (p *Poller) Await(ctx context.Context, requestID string) (*types.URIComponents, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 0 // bounded by ctx only
	if p.InitialInterval > 0 {
		bo.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		bo.MaxInterval = p.MaxInterval
	}

	var result *types.URIComponents
	operation := func() error {
		uri, err := p.Fetch(ctx, requestID)
		if err != nil {
			return err
		}
		result = uri
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return result, nil
}
