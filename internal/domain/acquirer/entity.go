// Package acquirer holds the payment acquirer configuration records.
package acquirer

import "context"

// Acquirer is a configured payment acquirer. The secret key authenticates
// server-to-provider calls; the publishable key and image are embedded into
// the page for the hosted widget.
type Acquirer struct {
	ID             int
	Provider       string
	Company        string
	PublishableKey string
	SecretKey      string
	ImageURL       string
	Environment    string // test or prod
}

// Repo is the acquirer lookup port.
type Repo interface {
	GetByID(ctx context.Context, id int) (Acquirer, error)
}
