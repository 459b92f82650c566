// Package watch reacts to provider forms being inserted into the page after
// the external checkout asset has rendered them.
package watch

import (
	"context"

	"github.com/scisoft/vnpay-checkout/internal/checkout/page"
)

// Handler is invoked once per matching form insertion. Repeated insertions of
// a re-rendered form invoke it again; deduplication is not the watcher's job.
type Handler func(ctx context.Context, form *page.Element)

// Watcher subscribes to document insertions and dispatches provider forms to
// its handler. It is never stopped; it lives as long as the document.
type Watcher struct {
	provider string
	handler  Handler
}

// New creates a watcher for forms carrying the given provider attribute.
func New(provider string, handler Handler) *Watcher {
	return &Watcher{provider: provider, handler: handler}
}

// Start registers the watcher on the document's insertion events.
func (w *Watcher) Start(ctx context.Context, doc *page.Document) {
	doc.Observe(func(added []*page.Element) {
		for _, el := range added {
			if el.Tag == "form" && el.Attr("provider") == w.provider {
				w.handler(ctx, el)
			}
		}
	})
}
