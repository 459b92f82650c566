package widget

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/scisoft/vnpay-checkout/internal/checkout/client"
	"github.com/scisoft/vnpay-checkout/internal/checkout/page"
)

const (
	processingMessage   = "Just one more second, confirming your payment..."
	genericErrorMessage = "Payment error"
)

// ChargeClient exchanges a widget token for a charge.
type ChargeClient interface {
	CreateCharge(ctx context.Context, req client.ChargeRequest) (string, error)
}

// Handler wraps the configured widget session. Exactly one exists per page.
type Handler struct {
	opener Opener

	// inFlight gates the token callback between token receipt and charge
	// outcome so duplicate widget submissions in that window are dropped.
	inFlight atomic.Bool
}

// Open delegates to the underlying widget's open operation.
func (h *Handler) Open(ctx context.Context, params OpenParams) error {
	return h.opener.Open(ctx, params)
}

// SessionManager lazily constructs and memoizes the page's widget handler and
// owns the token-exchange protocol.
type SessionManager struct {
	widget  Widget
	charges ChargeClient
	doc     *page.Document
	overlay Overlay
	nav     Navigator

	once    sync.Once
	handler *Handler
	initErr error
}

// NewSessionManager creates a session manager for the given page.
func NewSessionManager(w Widget, charges ChargeClient, doc *page.Document, overlay Overlay, nav Navigator) *SessionManager {
	return &SessionManager{
		widget:  w,
		charges: charges,
		doc:     doc,
		overlay: overlay,
		nav:     nav,
	}
}

// Handler returns the page's widget handler, configuring it on first call.
// Subsequent calls return the same instance.
func (s *SessionManager) Handler() (*Handler, error) {
	s.once.Do(func() {
		body := s.doc.Body()
		cfg := Config{
			Key:    body.InputValue("vnpay_key"),
			Image:  body.InputValue("vnpay_image"),
			Locale: "auto",
		}

		h := &Handler{}
		opener, err := s.widget.Configure(cfg, s.tokenCallback(h))
		if err != nil {
			s.initErr = err
			return
		}
		h.opener = opener
		s.handler = h
	})

	if s.initErr != nil {
		return nil, s.initErr
	}
	return s.handler, nil
}

// Open opens the widget with the given parameters, configuring the handler
// first if needed.
func (s *SessionManager) Open(ctx context.Context, params OpenParams) error {
	h, err := s.Handler()
	if err != nil {
		return err
	}
	return h.Open(ctx, params)
}

// tokenCallback builds the widget token callback: show the blocking overlay,
// exchange the token for a charge, hide the overlay whatever the outcome,
// then either navigate to the returned URL or surface the error inline.
func (s *SessionManager) tokenCallback(h *Handler) TokenFunc {
	return func(ctx context.Context, token Token) {
		if !h.inFlight.CompareAndSwap(false, true) {
			slog.WarnContext(ctx, "charge already in flight, dropping duplicate token",
				slog.String("token_id", token.ID))
			return
		}
		defer h.inFlight.Store(false)

		var (
			redirectURL string
			err         error
		)
		func() {
			s.overlay.Show(processingMessage)
			defer s.overlay.Hide()
			redirectURL, err = s.charges.CreateCharge(ctx, s.chargeRequest(token))
		}()

		if err != nil {
			slog.ErrorContext(ctx, "charge creation failed", slog.Any("error", err))
			s.doc.Body().AppendChild(errorDialog(err))
			return
		}

		s.nav.Navigate(redirectURL)
	}
}

// chargeRequest assembles the charge payload from the page form fields at the
// moment of the request, not from values cached at open time.
func (s *SessionManager) chargeRequest(token Token) client.ChargeRequest {
	body := s.doc.Body()

	acquirerID := ""
	if el := body.FindByID("acquirer_vnpay"); el != nil {
		acquirerID = el.Attr("value")
	}

	return client.ChargeRequest{
		TokenID:       token.ID,
		Email:         token.Email,
		Token:         client.Token{ID: token.ID, Email: token.Email},
		Amount:        body.InputValue("amount"),
		AcquirerID:    acquirerID,
		Currency:      body.InputValue("currency"),
		InvoiceNumber: body.InputValue("invoice_num"),
		TxRef:         body.InputValue("invoice_num"),
		ReturnURL:     body.InputValue("return_url"),
	}
}

// errorDialog renders the dismissible charge-failure dialog with the server
// message, falling back to a generic one.
func errorDialog(err error) *page.Element {
	msg := genericErrorMessage
	var chargeErr *client.ChargeError
	if errors.As(err, &chargeErr) && chargeErr.Message != "" {
		msg = chargeErr.Message
	}

	dialog := page.NewElement("div", "class", "modal vnpay-error", "role", "dialog")
	body := page.NewElement("div", "class", "modal-body")
	body.Text = msg
	dialog.AppendChild(body)
	dialog.AppendChild(page.NewElement("button", "class", "close", "data-dismiss", "modal"))
	return dialog
}
