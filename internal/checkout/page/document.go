// Package page models the merchant page as an explicit element tree with
// child-insertion observation, decoupling the checkout flow from any real
// browser DOM.
package page

import "sync"

// Document is the page root. Observers registered with Observe are invoked
// synchronously with each batch of newly inserted elements, mirroring
// child-list mutation observation.
type Document struct {
	body *Element

	mu        sync.Mutex
	observers []func(added []*Element)
}

// NewDocument creates a document with an empty body.
func NewDocument() *Document {
	d := &Document{}
	d.body = NewElement("body")
	d.body.doc = d
	return d
}

// Body returns the document body element.
func (d *Document) Body() *Element {
	return d.body
}

// Observe registers fn to be called for every insertion batch. Observers are
// never unregistered; they live as long as the document.
func (d *Document) Observe(fn func(added []*Element)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, fn)
}

func (d *Document) notify(added []*Element) {
	d.mu.Lock()
	observers := make([]func([]*Element), len(d.observers))
	copy(observers, d.observers)
	d.mu.Unlock()

	for _, fn := range observers {
		fn(added)
	}
}
