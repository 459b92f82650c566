package transaction

import (
	"context"
	"time"
)

// Repo is the transaction persistence port.
type Repo interface {
	GetByReference(ctx context.Context, reference string) (Transaction, error)
	GetByAccessToken(ctx context.Context, accessToken string) (Transaction, error)
	Create(ctx context.Context, tx Transaction) error
	// SetValidated records the charge outcome: new state, provider message and
	// provider charge id.
	SetValidated(ctx context.Context, reference string, state State, stateMessage, acquirerRef string) error
}

// ChargeParams are the provider charge-creation parameters. Amount is in the
// provider's smallest unit.
type ChargeParams struct {
	SecretKey    string
	Amount       int64
	Currency     string
	Reference    string
	Description  string
	Card         string
	Customer     string
	ReceiptEmail string
}

// RefundParams are the provider refund parameters.
type RefundParams struct {
	SecretKey string
	Charge    string
	Amount    int64
	Reference string
}

// GatewayResult is the provider response tree, flattened.
type GatewayResult struct {
	ID           string
	Status       string
	ErrorMessage string
}

// Gateway is the provider REST API port.
type Gateway interface {
	CreateCharge(ctx context.Context, params ChargeParams) (GatewayResult, error)
	CreateRefund(ctx context.Context, params RefundParams) (GatewayResult, error)
}

// Event is one entry of the transaction audit log.
type Event struct {
	Reference string
	State     State
	Message   string
	CreatedAt time.Time
}

// EventSink records transaction state changes.
type EventSink interface {
	Record(ctx context.Context, event Event) error
}

// ChargeError is a charge refusal with the provider-supplied message.
type ChargeError struct {
	Message string
}

func (e *ChargeError) Error() string {
	if e.Message == "" {
		return "charge failed"
	}
	return "charge failed: " + e.Message
}
