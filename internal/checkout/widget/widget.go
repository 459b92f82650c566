// Package widget manages the page's single hosted-checkout widget session:
// lazy one-time configuration, widget opening, and the token-for-charge
// exchange with the merchant backend.
package widget

import "context"

// Config is the widget branding configuration read from the page.
type Config struct {
	Key    string
	Image  string
	Locale string
}

// Token is the opaque single-use credential produced by the hosted widget.
type Token struct {
	ID    string
	Email string
}

// TokenFunc is invoked by the widget each time the user completes its UI.
type TokenFunc func(ctx context.Context, token Token)

// OpenParams are the parameters passed to the widget's open operation. Amount
// is already rescaled for the currency.
type OpenParams struct {
	Name        string
	Description string
	Email       string
	Currency    string
	Amount      float64
}

// Opener is the configured widget's open operation.
type Opener interface {
	Open(ctx context.Context, params OpenParams) error
}

// Widget is the hosted checkout library. Configure registers the token
// callback and returns the open operation; it is called at most once per page.
type Widget interface {
	Configure(cfg Config, onToken TokenFunc) (Opener, error)
}

// Overlay is the blocking full-page "processing" surface shown while a charge
// is being confirmed.
type Overlay interface {
	Show(message string)
	Hide()
}

// Navigator performs the terminal redirect after a successful charge.
type Navigator interface {
	Navigate(url string)
}
