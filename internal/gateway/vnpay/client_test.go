package vnpay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scisoft/vnpay-checkout/internal/domain/transaction"
)

func TestCreateCharge_RequestShape(t *testing.T) {
	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		_, _ = w.Write([]byte(`{"id":"ch_1","status":"succeeded"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	result, err := c.CreateCharge(context.Background(), transaction.ChargeParams{
		SecretKey:    "sk_test_456",
		Amount:       1250,
		Currency:     "USD",
		Reference:    "SO042",
		Description:  "SO042",
		Card:         "card_1",
		ReceiptEmail: "buyer@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, transaction.GatewayResult{ID: "ch_1", Status: "succeeded"}, result)

	require.NotNil(t, captured)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/charges", captured.URL.Path)
	assert.Equal(t, "2016-03-07", captured.Header.Get("Vnpay-Version"))

	user, pass, ok := captured.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "sk_test_456", user)
	assert.Equal(t, "", pass)

	q := captured.URL.Query()
	assert.Equal(t, "1250", q.Get("amount"))
	assert.Equal(t, "USD", q.Get("currency"))
	assert.Equal(t, "SO042", q.Get("metadata[reference]"))
	assert.Equal(t, "SO042", q.Get("description"))
	assert.Equal(t, "card_1", q.Get("card"))
	assert.Equal(t, "buyer@example.com", q.Get("receipt_email"))
	assert.Empty(t, q.Get("customer"))
}

func TestCreateCharge_DeclinedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"id":"ch_1","status":"failed","error":{"message":"Your card was declined."}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	result, err := c.CreateCharge(context.Background(), transaction.ChargeParams{SecretKey: "sk", Amount: 1250})

	require.NoError(t, err)
	assert.Equal(t, "failed", result.Status)
	assert.Equal(t, "Your card was declined.", result.ErrorMessage)
}

func TestCreateCharge_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream error</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	_, err := c.CreateCharge(context.Background(), transaction.ChargeParams{SecretKey: "sk"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestCreateRefund_RequestShape(t *testing.T) {
	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		_, _ = w.Write([]byte(`{"id":"re_1","status":"succeeded"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	result, err := c.CreateRefund(context.Background(), transaction.RefundParams{
		SecretKey: "sk_test_456",
		Charge:    "ch_1",
		Amount:    1250,
		Reference: "SO042",
	})
	require.NoError(t, err)
	assert.Equal(t, "re_1", result.ID)

	require.NotNil(t, captured)
	assert.Equal(t, "/refunds", captured.URL.Path)

	q := captured.URL.Query()
	assert.Equal(t, "ch_1", q.Get("charge"))
	assert.Equal(t, "1250", q.Get("amount"))
	assert.Equal(t, "SO042", q.Get("metadata[reference]"))
}
