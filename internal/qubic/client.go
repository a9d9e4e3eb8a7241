// Package qubic implements the ledger gateway against the Qubic RPC API.
package qubic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/shopspring/decimal"

	"ripapay/internal/chain"
	"ripapay/internal/domain"
	"ripapay/pkg/config"
	"ripapay/pkg/logger"
)

// Client talks to a Qubic RPC node over HTTP. Transient transport
// failures (network errors, 5xx) are retried a bounded number of times;
// client errors are not. The payment core on top of this client never
// retries, so retry policy lives here, at the gateway boundary.
type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   uint
	retryDelay time.Duration
	logger     logger.Logger
}

// NewClient builds a Client from configuration.
func NewClient(cfg config.QubicConfig, log logger.Logger) *Client {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.RPCURL, "/"),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		attempts:   uint(attempts),
		retryDelay: cfg.RetryDelay,
		logger:     log,
	}
}

// statusError marks a non-2xx RPC response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qubic rpc returned %d: %s", e.code, e.body)
}

// CreateTransaction broadcasts a transfer and returns the ledger's
// transaction ID.
func (c *Client) CreateTransaction(ctx context.Context, req domain.TransferRequest) (string, error) {
	body := map[string]interface{}{
		"source":      req.SourceAddress,
		"destination": req.DestinationAddress,
		"amount":      req.AmountUnits,
		"fee":         req.FeeUnits,
	}
	if req.Memo != "" {
		body["memo"] = req.Memo
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "transactions", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", fmt.Errorf("qubic rpc: transaction accepted without an id")
	}
	return resp.ID, nil
}

// GetBalance returns the balance of an address in smallest units.
func (c *Client) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	var resp struct {
		Balance decimal.Decimal `json:"balance"`
	}
	if err := c.do(ctx, http.MethodGet, "balances/"+url.PathEscape(address), nil, &resp); err != nil {
		return decimal.Decimal{}, err
	}
	return resp.Balance, nil
}

// GetTransaction returns a single transaction record.
func (c *Client) GetTransaction(ctx context.Context, id string) (*domain.LedgerRecord, error) {
	var record domain.LedgerRecord
	if err := c.do(ctx, http.MethodGet, "transactions/"+url.PathEscape(id), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetTransactionsByAddress returns transaction records involving an
// address, narrowed by the filter.
func (c *Client) GetTransactionsByAddress(ctx context.Context, address string, filter chain.TxFilter) ([]domain.LedgerRecord, error) {
	query := url.Values{}
	if filter.Source != "" {
		query.Set("source", filter.Source)
	}
	if filter.Destination != "" {
		query.Set("destination", filter.Destination)
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Offset > 0 {
		query.Set("offset", strconv.Itoa(filter.Offset))
	}

	path := "addresses/" + url.PathEscape(address) + "/transactions"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp struct {
		Transactions []domain.LedgerRecord `json:"transactions"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// GetStatus reports node health.
func (c *Client) GetStatus(ctx context.Context) (*domain.NetworkStatus, error) {
	var status domain.NetworkStatus
	if err := c.do(ctx, http.MethodGet, "status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ValidateAddress checks an address with the node.
func (c *Client) ValidateAddress(ctx context.Context, address string) (bool, error) {
	var resp struct {
		Valid bool `json:"valid"`
	}
	body := map[string]string{"address": address}
	if err := c.do(ctx, http.MethodPost, "addresses/validate", body, &resp); err != nil {
		return false, err
	}
	return resp.Valid, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	endpoint := c.baseURL + "/" + path

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("qubic rpc: encode request: %w", err)
		}
		payload = data
	}

	return retry.Do(
		func() error {
			return c.once(ctx, method, endpoint, payload, out)
		},
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if ctx.Err() != nil {
				return false
			}
			return isTransient(err)
		}),
	)
}

func (c *Client) once(ctx context.Context, method, endpoint string, payload []byte, out interface{}) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("qubic rpc: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qubic rpc: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("qubic rpc: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Qubic RPC error response", map[string]interface{}{
			"method": method,
			"url":    endpoint,
			"status": resp.StatusCode,
		})
		return &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("qubic rpc: decode response: %w", err)
	}
	return nil
}

// isTransient reports whether an attempt is worth repeating: network
// errors and server-side failures are, client errors are not.
func isTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500
	}
	return true
}
