package transaction

import "time"

// State is the transaction lifecycle state.
type State string

const (
	StateDraft  State = "draft"
	StateDone   State = "done"
	StateCancel State = "cancel"
	StateError  State = "error"
)

// Transaction is one payment attempt. Reference is the unique merchant-side
// identifier; AcquirerRef is the provider-side charge id once one exists.
type Transaction struct {
	Reference     string
	AcquirerID    int
	Amount        float64
	Currency      string
	PartnerEmail  string
	InvoiceNumber string
	AccessToken   string
	ReturnURL     string
	State         State
	StateMessage  string
	AcquirerRef   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validated reports whether the transaction already left the draft state.
// Charge creation for a validated transaction is an idempotent no-op.
func (t Transaction) Validated() bool {
	return t.State != StateDraft
}
