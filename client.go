package safemigrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nlordell/safe-migrate/pkg/types"
)

// Client provides access to the Safe relay service for a single
// network: Safe lookup, gas estimation and transaction submission.
type Client struct {
	relayURL   string
	httpClient *HTTPClient
}

func NewClient(relayURL string) *Client {
	return &Client{
		relayURL:   strings.TrimRight(relayURL, "/"),
		httpClient: NewHTTPClient(nil),
	}
}

// SetHTTPClient allows overriding the underlying HTTP client.
func (c *Client) SetHTTPClient(client *HTTPClient) {
	if client != nil {
		c.httpClient = client
	}
}

// GetSafeInfo retrieves the Safe's current nonce, owners, threshold
// and contract version.
func (c *Client) GetSafeInfo(ctx context.Context, safe common.Address) (*types.SafeInfo, error) {
	var resp types.SafeInfo
	if err := c.send(ctx, http.MethodGet, SafeInfoEndpoint(safe), nil, &resp); err != nil {
		return nil, relayError(err)
	}
	return &resp, nil
}

// EstimateTransaction asks the relay for a gas estimate for the given
// call. The response is untrusted input: it is range-checked before it
// is returned, and a response failing validation is discarded with
// ErrInvalidEstimate.
func (c *Client) EstimateTransaction(ctx context.Context, request *types.EstimateRequest) (*types.RelayEstimate, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode estimate request: %w", err)
	}

	var estimate types.RelayEstimate
	if err := c.send(ctx, http.MethodPost, EstimateEndpoint(request.Safe), payload, &estimate); err != nil {
		return nil, relayError(err)
	}
	if err := estimate.Validate(); err != nil {
		return nil, err
	}
	return &estimate, nil
}

// SubmitTransaction sends a signed transaction to the relay for
// execution. Success means the relay accepted the transaction; this
// client does not poll for on-chain confirmation.
func (c *Client) SubmitTransaction(ctx context.Context, tx *types.SignedSafeTransaction) (*SubmitResponse, error) {
	payload, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("encode transaction: %w", err)
	}

	var resp SubmitResponse
	if err := c.send(ctx, http.MethodPost, SubmitEndpoint(tx.Safe), payload, &resp); err != nil {
		return nil, relayError(err)
	}
	return &resp, nil
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, out interface{}) error {
	opts := &RequestOptions{}
	if len(body) > 0 {
		opts.Body = body
	}
	return c.httpClient.Do(ctx, method, c.relayURL+path, opts, out)
}

// relayError classifies a transport error into the migration error
// taxonomy. Responses the service refused outright (4xx other than
// 429) are terminal rejections; everything else is a reachability
// problem the caller may retry by re-running the migration.
func relayError(err error) error {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 && httpErr.StatusCode != http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", types.ErrRelayRejected, httpErr.Body)
		}
	}
	return fmt.Errorf("%w: %v", types.ErrRelayUnreachable, err)
}
