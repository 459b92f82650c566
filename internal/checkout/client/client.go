// Package client talks to the merchant backend's checkout endpoints:
// transaction preparation and charge creation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ChargePath is the fixed backend path for charge creation.
const ChargePath = "/payment/vnpay/create_charge"

// PrepareRequest is the payload of the transaction-preparation call.
type PrepareRequest struct {
	AcquirerID  int    `json:"acquirer_id"`
	AccessToken string `json:"access_token"`
}

// Token is the opaque credential produced by the hosted widget.
type Token struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ChargeRequest is the payload of the charge-creation call. Values are read
// from the page form at request time, so amount and acquirer id arrive as the
// raw field strings. Token id and email are duplicated at top level for
// backward compatibility with older consumers.
type ChargeRequest struct {
	TokenID       string `json:"tokenid"`
	Email         string `json:"email"`
	Token         Token  `json:"token"`
	Amount        string `json:"amount"`
	AcquirerID    string `json:"acquirer_id"`
	Currency      string `json:"currency"`
	InvoiceNumber string `json:"invoice_num"`
	TxRef         string `json:"tx_ref"`
	ReturnURL     string `json:"return_url"`
}

type chargeErrorBody struct {
	Data struct {
		Message string `json:"message"`
	} `json:"data"`
}

// Client is the HTTP client for the merchant backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   RetryConfig
}

// Config holds configuration for Client.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
}

// New creates a backend client.
func New(cfg Config) *Client {
	retryCfg := DefaultRetryConfig()
	if cfg.RetryAttempts > 0 {
		retryCfg = RetryConfig{
			MaxAttempts: cfg.RetryAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			MaxDelay:    cfg.RetryMaxDelay,
		}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		retryCfg: retryCfg,
	}
}

// PrepareTransaction posts the acquirer id and access token to the
// page-embedded preparation URL and returns the server-rendered form HTML.
// Transient backend failures are retried.
func (c *Client) PrepareTransaction(ctx context.Context, prepareURL string, req PrepareRequest) (string, error) {
	var html string
	err := DoWithRetry(ctx, c.retryCfg, func() error {
		body, err := c.post(ctx, prepareURL, req)
		if err != nil {
			return err
		}
		html = string(body)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("prepare transaction: %w", err)
	}
	return html, nil
}

// CreateCharge exchanges a widget token for a charge. On success it returns
// the redirect URL. A refusal is returned as *ChargeError with the
// server-provided message. Never retried: the token is single-use.
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (string, error) {
	body, err := c.post(ctx, c.baseURL+ChargePath, req)
	if err != nil {
		return "", fmt.Errorf("create charge: %w", err)
	}

	var redirectURL string
	if err := json.Unmarshal(body, &redirectURL); err != nil {
		return "", fmt.Errorf("create charge: decode response: %w", err)
	}
	return redirectURL, nil
}

// Close releases any resources held by the client.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) post(ctx context.Context, url string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrBadRequest, string(body))
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusPaymentRequired:
		var refusal chargeErrorBody
		_ = json.Unmarshal(body, &refusal)
		return nil, &ChargeError{Message: refusal.Data.Message}
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrServiceUnavailable, resp.StatusCode, string(body))
	default:
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}
}
