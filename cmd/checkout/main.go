// Command checkout drives one full checkout flow against a running backend:
// it builds a minimal merchant page, runs the startup sequence, and pays with
// a scripted widget that submits the configured card token as soon as it is
// opened. On success it prints the redirect URL the backend returned.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/scisoft/vnpay-checkout/config"
	"github.com/scisoft/vnpay-checkout/internal/checkout/bootstrap"
	"github.com/scisoft/vnpay-checkout/internal/checkout/client"
	"github.com/scisoft/vnpay-checkout/internal/checkout/page"
	"github.com/scisoft/vnpay-checkout/internal/checkout/provision"
	"github.com/scisoft/vnpay-checkout/internal/checkout/widget"
	"github.com/scisoft/vnpay-checkout/pkg/logger"
)

func main() {
	cfg, err := config.NewCheckout()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}
	logger.Setup(logger.Options{Level: cfg.LogLevel, Console: true})

	if err := run(context.Background(), cfg); err != nil {
		slog.Error("checkout failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Checkout) error {
	doc := page.NewDocument()
	if err := doc.Body().SetContent(merchantPage(cfg)); err != nil {
		return fmt.Errorf("build merchant page: %w", err)
	}

	backend := client.New(client.Config{
		BaseURL: cfg.BackendBaseURL,
		Timeout: cfg.HTTPClientTimeout,
	})
	defer func() { _ = backend.Close() }()

	w := &scriptedWidget{token: widget.Token{ID: cfg.TokenID, Email: cfg.TokenEmail}}
	nav := &recordingNavigator{}
	session := widget.NewSessionManager(w, backend, doc, &logOverlay{}, nav)
	provisioner := provision.New(backend, session, doc)
	loader := &httpAssetLoader{client: &http.Client{Timeout: cfg.HTTPClientTimeout}}

	if err := bootstrap.New(doc, loader, provisioner, cfg.CheckoutScriptURL).Run(ctx); err != nil {
		return err
	}

	if nav.url == "" {
		return fmt.Errorf("charge was not accepted")
	}
	fmt.Println(nav.url)
	return nil
}

// merchantPage is the smallest page the startup sequence acts on: the payment
// form container with the preparation URL, and the provider form carrying the
// acquirer id and access token. Everything else is rendered by the backend
// during provisioning.
func merchantPage(cfg config.Checkout) string {
	return fmt.Sprintf(`<div class="o_payment_form">
		<input type="hidden" name="prepare_tx_url" value="%s/payment/vnpay/prepare_tx"/>
		<form provider="vnpay">
			<input type="hidden" id="acquirer_vnpay" value="%d"/>
			<input type="hidden" name="access_token" value="%s"/>
		</form>
	</div>`, cfg.BackendBaseURL, cfg.AcquirerID, cfg.AccessToken)
}

// scriptedWidget stands in for the hosted checkout library: opening it
// "completes" the UI immediately with the configured token.
type scriptedWidget struct {
	token widget.Token
}

func (w *scriptedWidget) Configure(cfg widget.Config, onToken widget.TokenFunc) (widget.Opener, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("page carries no publishable key")
	}
	return &scriptedOpener{token: w.token, onToken: onToken}, nil
}

type scriptedOpener struct {
	token   widget.Token
	onToken widget.TokenFunc
}

func (o *scriptedOpener) Open(ctx context.Context, params widget.OpenParams) error {
	slog.InfoContext(ctx, "widget opened",
		slog.String("name", params.Name),
		slog.String("description", params.Description),
		slog.String("currency", params.Currency),
		slog.Float64("amount", params.Amount))
	o.onToken(ctx, o.token)
	return nil
}

type httpAssetLoader struct {
	client *http.Client
}

func (l *httpAssetLoader) Load(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return nil
}

type logOverlay struct{}

func (logOverlay) Show(message string) { slog.Info("overlay shown", slog.String("message", message)) }
func (logOverlay) Hide()               { slog.Info("overlay hidden") }

type recordingNavigator struct {
	url string
}

func (n *recordingNavigator) Navigate(url string) {
	n.url = url
	slog.Info("redirecting", slog.String("url", url))
}
