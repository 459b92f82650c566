// Package bootstrap sequences checkout startup: load the external widget
// asset, start watching for provider forms, then provision any form already
// present on the page.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/scisoft/vnpay-checkout/internal/checkout/page"
	"github.com/scisoft/vnpay-checkout/internal/checkout/provision"
	"github.com/scisoft/vnpay-checkout/internal/checkout/watch"
)

// ScriptURL is the hosted widget's script location.
const ScriptURL = "https://checkout.vnpay.com/checkout.js"

// AssetLoader loads the external widget script. The watcher and the initial
// provisioning pass only run after it succeeds.
type AssetLoader interface {
	Load(ctx context.Context, url string) error
}

// Provisioner runs the provisioning flow for a provider form.
type Provisioner interface {
	Provision(ctx context.Context, form *page.Element) error
}

// Sequencer orchestrates checkout startup for one page.
type Sequencer struct {
	doc         *page.Document
	loader      AssetLoader
	provisioner Provisioner
	scriptURL   string
}

// New creates a sequencer. scriptURL may be empty to use the default.
func New(doc *page.Document, loader AssetLoader, provisioner Provisioner, scriptURL string) *Sequencer {
	if scriptURL == "" {
		scriptURL = ScriptURL
	}
	return &Sequencer{doc: doc, loader: loader, provisioner: provisioner, scriptURL: scriptURL}
}

// Run performs the startup sequence. A page without a payment form container
// is a silent no-op, not an error. Forms inserted before the asset finishes
// loading are only handled by the initial pass, not by the watcher.
func (s *Sequencer) Run(ctx context.Context) error {
	body := s.doc.Body()
	if body.Find(func(e *page.Element) bool { return e.HasClass(provision.PaymentFormClass) }) == nil {
		slog.DebugContext(ctx, "page has no payment form container, checkout not started")
		return nil
	}

	if err := s.loader.Load(ctx, s.scriptURL); err != nil {
		return fmt.Errorf("load checkout script: %w", err)
	}

	watch.New(provision.ProviderName, s.provisionLogged).Start(ctx, s.doc)

	for _, form := range body.FindAll(isProviderForm) {
		s.provisionLogged(ctx, form)
	}
	return nil
}

func (s *Sequencer) provisionLogged(ctx context.Context, form *page.Element) {
	if err := s.provisioner.Provision(ctx, form); err != nil {
		slog.ErrorContext(ctx, "provisioning failed", slog.Any("error", err))
	}
}

func isProviderForm(e *page.Element) bool {
	return e.Tag == "form" && e.Attr("provider") == provision.ProviderName
}
