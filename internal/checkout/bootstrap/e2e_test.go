package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scisoft/vnpay-checkout/internal/checkout/client"
	"github.com/scisoft/vnpay-checkout/internal/checkout/page"
	"github.com/scisoft/vnpay-checkout/internal/checkout/provision"
	"github.com/scisoft/vnpay-checkout/internal/checkout/widget"
)

// instantWidget completes its UI with a fixed token as soon as it is opened.
type instantWidget struct {
	token widget.Token
}

type instantOpener struct {
	token   widget.Token
	onToken widget.TokenFunc
}

func (w *instantWidget) Configure(cfg widget.Config, onToken widget.TokenFunc) (widget.Opener, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("no publishable key")
	}
	return &instantOpener{token: w.token, onToken: onToken}, nil
}

func (o *instantOpener) Open(ctx context.Context, _ widget.OpenParams) error {
	o.onToken(ctx, o.token)
	return nil
}

type noopOverlay struct{}

func (noopOverlay) Show(string) {}
func (noopOverlay) Hide()       {}

type capturingNavigator struct {
	urls []string
}

func (n *capturingNavigator) Navigate(url string) { n.urls = append(n.urls, url) }

// TestCheckoutFlow_EndToEnd runs the whole client flow against an HTTP
// backend: startup, preparation, content swap, widget token, charge,
// navigation.
func TestCheckoutFlow_EndToEnd(t *testing.T) {
	var chargeReq client.ChargeRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/checkout.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
	})
	mux.HandleFunc("/payment/vnpay/prepare_tx", func(w http.ResponseWriter, r *http.Request) {
		var req client.PrepareRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 7, req.AcquirerID)
		assert.Equal(t, "tok-abc", req.AccessToken)

		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<input type="hidden" name="vnpay_key" value="pk_test_123"/>
			<input type="hidden" name="vnpay_image" value="https://shop.example/logo.png"/>
			<input type="hidden" id="acquirer_vnpay" value="7"/>
			<input type="hidden" name="amount" value="12.50"/>
			<input type="hidden" name="currency" value="USD"/>
			<input type="hidden" name="email" value="buyer@example.com"/>
			<input type="hidden" name="invoice_num" value="SO042"/>
			<input type="hidden" name="merchant" value="Shop"/>
			<input type="hidden" name="return_url" value="/shop/payment/validate"/>
			<button type="submit" id="pay_vnpay" class="btn btn-primary">Pay Now</button>`)
	})
	mux.HandleFunc(client.ChargePath, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&chargeReq))
		_ = json.NewEncoder(w).Encode("/shop/payment/validate")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	doc := page.NewDocument()
	require.NoError(t, doc.Body().SetContent(fmt.Sprintf(`<div class="o_payment_form">
		<input type="hidden" name="prepare_tx_url" value="%s/payment/vnpay/prepare_tx"/>
		<form provider="vnpay">
			<input type="hidden" id="acquirer_vnpay" value="7"/>
			<input type="hidden" name="access_token" value="tok-abc"/>
		</form>
	</div>`, srv.URL)))

	backend := client.New(client.Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	nav := &capturingNavigator{}
	session := widget.NewSessionManager(
		&instantWidget{token: widget.Token{ID: "card_1", Email: "buyer@example.com"}},
		backend, doc, noopOverlay{}, nav,
	)
	provisioner := provision.New(backend, session, doc)
	loader := &httpLoader{client: srv.Client()}

	err := New(doc, loader, provisioner, srv.URL+"/checkout.js").Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"/shop/payment/validate"}, nav.urls)

	assert.Equal(t, "card_1", chargeReq.TokenID)
	assert.Equal(t, "card_1", chargeReq.Token.ID)
	assert.Equal(t, "12.50", chargeReq.Amount)
	assert.Equal(t, "7", chargeReq.AcquirerID)
	assert.Equal(t, "USD", chargeReq.Currency)
	assert.Equal(t, "SO042", chargeReq.TxRef)
	assert.Equal(t, "/shop/payment/validate", chargeReq.ReturnURL)
}

func TestCheckoutFlow_RefusalShowsDialog(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/checkout.js", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/payment/vnpay/prepare_tx", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<input type="hidden" name="vnpay_key" value="pk_test_123"/>
			<input type="hidden" name="amount" value="12.50"/>
			<input type="hidden" name="currency" value="USD"/>`)
	})
	mux.HandleFunc(client.ChargePath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = fmt.Fprint(w, `{"data":{"message":"Your card was declined."}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	doc := page.NewDocument()
	require.NoError(t, doc.Body().SetContent(fmt.Sprintf(`<div class="o_payment_form">
		<input type="hidden" name="prepare_tx_url" value="%s/payment/vnpay/prepare_tx"/>
		<form provider="vnpay">
			<input type="hidden" id="acquirer_vnpay" value="7"/>
			<input type="hidden" name="access_token" value="tok-abc"/>
		</form>
	</div>`, srv.URL)))

	backend := client.New(client.Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	nav := &capturingNavigator{}
	session := widget.NewSessionManager(
		&instantWidget{token: widget.Token{ID: "card_1"}},
		backend, doc, noopOverlay{}, nav,
	)
	provisioner := provision.New(backend, session, doc)

	err := New(doc, &httpLoader{client: srv.Client()}, provisioner, srv.URL+"/checkout.js").Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, nav.urls)
	dialog := doc.Body().Find(func(e *page.Element) bool { return e.HasClass("vnpay-error") })
	require.NotNil(t, dialog)
	body := dialog.Find(func(e *page.Element) bool { return e.HasClass("modal-body") })
	require.NotNil(t, body)
	assert.Equal(t, "Your card was declined.", body.Text)
}

type httpLoader struct {
	client *http.Client
}

func (l *httpLoader) Load(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
