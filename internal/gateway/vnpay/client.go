// Package vnpay is the HTTP client for the VNPAY REST API.
package vnpay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/scisoft/vnpay-checkout/internal/domain/transaction"
)

// apiVersion pins the provider API version to avoid breaking on their side.
const apiVersion = "2016-03-07"

// Client talks to the provider's charges and refunds endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a provider client. baseURL is e.g. "https://api.vnpay.com/v1".
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

var _ transaction.Gateway = (*Client)(nil)

type chargeParams struct {
	Amount       int64  `url:"amount"`
	Currency     string `url:"currency"`
	Reference    string `url:"metadata[reference]"`
	Description  string `url:"description"`
	Customer     string `url:"customer,omitempty"`
	Card         string `url:"card,omitempty"`
	ReceiptEmail string `url:"receipt_email,omitempty"`
}

type refundParams struct {
	Charge    string `url:"charge"`
	Amount    int64  `url:"amount"`
	Reference string `url:"metadata[reference]"`
}

type responseTree struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCharge creates a charge for a tokenized card.
func (c *Client) CreateCharge(ctx context.Context, p transaction.ChargeParams) (transaction.GatewayResult, error) {
	params := chargeParams{
		Amount:       p.Amount,
		Currency:     p.Currency,
		Reference:    p.Reference,
		Description:  p.Description,
		Customer:     p.Customer,
		Card:         p.Card,
		ReceiptEmail: p.ReceiptEmail,
	}
	return c.post(ctx, "/charges", p.SecretKey, params)
}

// CreateRefund refunds a charge in full.
func (c *Client) CreateRefund(ctx context.Context, p transaction.RefundParams) (transaction.GatewayResult, error) {
	params := refundParams{
		Charge:    p.Charge,
		Amount:    p.Amount,
		Reference: p.Reference,
	}
	return c.post(ctx, "/refunds", p.SecretKey, params)
}

func (c *Client) post(ctx context.Context, path, secretKey string, params any) (transaction.GatewayResult, error) {
	values, err := query.Values(params)
	if err != nil {
		return transaction.GatewayResult{}, fmt.Errorf("encode params: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return transaction.GatewayResult{}, fmt.Errorf("create request: %w", err)
	}
	req.URL.RawQuery = values.Encode()
	req.SetBasicAuth(secretKey, "")
	req.Header.Set("Vnpay-Version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return transaction.GatewayResult{}, fmt.Errorf("call provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return transaction.GatewayResult{}, fmt.Errorf("read provider response: %w", err)
	}

	// The provider answers declined charges with the same envelope and a
	// non-2xx status; the response tree decides the outcome.
	var tree responseTree
	if err := json.Unmarshal(body, &tree); err != nil {
		return transaction.GatewayResult{}, fmt.Errorf("decode provider response (status %d): %w", resp.StatusCode, err)
	}

	result := transaction.GatewayResult{ID: tree.ID, Status: tree.Status}
	if tree.Error != nil {
		result.ErrorMessage = tree.Error.Message
	}
	return result, nil
}
