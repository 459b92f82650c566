package transaction_repo

import (
	"github.com/jackc/pgx/v5"

	"github.com/scisoft/vnpay-checkout/internal/domain/transaction"
)

func parseTransactionRow(r pgx.Row) (transaction.Transaction, error) {
	var m row

	err := r.Scan(
		&m.Reference,
		&m.AcquirerID,
		&m.Amount,
		&m.Currency,
		&m.PartnerEmail,
		&m.InvoiceNumber,
		&m.AccessToken,
		&m.ReturnURL,
		&m.State,
		&m.StateMessage,
		&m.AcquirerRef,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return transaction.Transaction{}, err
	}

	return m.toDomain(), nil
}
