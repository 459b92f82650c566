package transaction_repo

import (
	"time"

	"github.com/scisoft/vnpay-checkout/internal/domain/transaction"
)

type row struct {
	Reference     string
	AcquirerID    int
	Amount        float64
	Currency      string
	PartnerEmail  string
	InvoiceNumber string
	AccessToken   string
	ReturnURL     string
	State         string
	StateMessage  string
	AcquirerRef   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (m row) toDomain() transaction.Transaction {
	return transaction.Transaction{
		Reference:     m.Reference,
		AcquirerID:    m.AcquirerID,
		Amount:        m.Amount,
		Currency:      m.Currency,
		PartnerEmail:  m.PartnerEmail,
		InvoiceNumber: m.InvoiceNumber,
		AccessToken:   m.AccessToken,
		ReturnURL:     m.ReturnURL,
		State:         transaction.State(m.State),
		StateMessage:  m.StateMessage,
		AcquirerRef:   m.AcquirerRef,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
