// Package provision populates a provider form with server-rendered
// transaction data and opens the widget session for it.
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/scisoft/vnpay-checkout/internal/checkout/client"
	"github.com/scisoft/vnpay-checkout/internal/checkout/currency"
	"github.com/scisoft/vnpay-checkout/internal/checkout/page"
	"github.com/scisoft/vnpay-checkout/internal/checkout/widget"
)

// DOM contract with the merchant page.
const (
	// ProviderName is the value of the provider attribute marking our forms.
	ProviderName = "vnpay"
	// PaymentFormClass marks the global payment form container.
	PaymentFormClass = "o_payment_form"
	// PayButtonID is the "Pay Now" trigger whose element identity must
	// survive the content swap (it carries the page's click handlers).
	PayButtonID = "pay_vnpay"
	// AcquirerInputID is the field carrying the acquirer id.
	AcquirerInputID = "acquirer_vnpay"
)

// Backend fetches the server-rendered form contents for a transaction.
type Backend interface {
	PrepareTransaction(ctx context.Context, prepareURL string, req client.PrepareRequest) (string, error)
}

// Session opens the widget with assembled transaction parameters.
type Session interface {
	Open(ctx context.Context, params widget.OpenParams) error
}

// Provisioner runs the provisioning flow for provider forms.
type Provisioner struct {
	backend Backend
	session Session
	doc     *page.Document

	// swapping is true while our own content swap is inserting elements, so
	// the insertion observer reacting to those writes cannot re-enter us.
	// Insertions are dispatched synchronously on the same goroutine.
	swapping bool
}

// New creates a provisioner over the given document.
func New(backend Backend, session Session, doc *page.Document) *Provisioner {
	return &Provisioner{backend: backend, session: session, doc: doc}
}

// Provision fetches server-rendered parameters for the provider form, swaps
// them in while preserving the pay trigger, and opens the widget session.
func (p *Provisioner) Provision(ctx context.Context, form *page.Element) error {
	if p.swapping {
		slog.DebugContext(ctx, "provisioning triggered by own content swap, skipping")
		return nil
	}

	body := p.doc.Body()
	container := body.Find(func(e *page.Element) bool { return e.HasClass(PaymentFormClass) })
	if container == nil {
		return fmt.Errorf("provision: no %q container on page", PaymentFormClass)
	}

	if container.Find(func(e *page.Element) bool { return e.Tag == "i" }) == nil {
		container.AppendChild(page.NewElement("i", "class", "fa fa-spinner fa-spin"))
	}
	container.SetAttr("disabled", "disabled")

	prepareURL := container.InputValue("prepare_tx_url")
	accessToken := body.InputValue("access_token")
	if accessToken == "" {
		accessToken = body.InputValue("token")
	}

	acquirerID := 0
	if el := form.FindByID(AcquirerInputID); el != nil {
		acquirerID, _ = strconv.Atoi(el.Attr("value"))
	}
	amount, err := strconv.ParseFloat(form.InputValue("amount"), 64)
	if err != nil {
		amount = 0.0
	}
	cur := form.InputValue("currency")
	email := form.InputValue("email")
	invoiceNumber := form.InputValue("invoice_num")
	merchant := form.InputValue("merchant")

	html, err := p.backend.PrepareTransaction(ctx, prepareURL, client.PrepareRequest{
		AcquirerID:  acquirerID,
		AccessToken: accessToken,
	})
	if err != nil {
		p.resetBusy(container)
		return fmt.Errorf("provision form: %w", err)
	}

	if err := p.swapContent(form, html); err != nil {
		p.resetBusy(container)
		return fmt.Errorf("provision form: %w", err)
	}

	return p.session.Open(ctx, widget.OpenParams{
		Name:        merchant,
		Description: invoiceNumber,
		Email:       email,
		Currency:    cur,
		Amount:      currency.WidgetAmount(amount, cur),
	})
}

// swapContent replaces the form contents with the server-rendered HTML,
// detaching the pay trigger first and reinserting the original element in
// place of any same-id element the response rendered.
func (p *Provisioner) swapContent(form *page.Element, html string) error {
	payButton := form.FindByID(PayButtonID)
	if payButton != nil {
		payButton.Detach()
	}

	p.swapping = true
	defer func() { p.swapping = false }()

	if err := form.SetContent(html); err != nil {
		return err
	}

	if payButton != nil {
		if rendered := form.FindByID(PayButtonID); rendered != nil {
			rendered.ReplaceWith(payButton)
		}
	}
	return nil
}

func (p *Provisioner) resetBusy(container *page.Element) {
	if spinner := container.Find(func(e *page.Element) bool { return e.Tag == "i" }); spinner != nil {
		spinner.Detach()
	}
	container.RemoveAttr("disabled")
}
