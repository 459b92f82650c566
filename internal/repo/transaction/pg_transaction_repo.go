package transaction_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/scisoft/vnpay-checkout/internal/apperror"
	"github.com/scisoft/vnpay-checkout/internal/domain/transaction"
	"github.com/scisoft/vnpay-checkout/pkg/postgres"
)

var columns = []string{
	"reference", "acquirer_id", "amount", "currency", "partner_email",
	"invoice_number", "access_token", "return_url", "state", "state_message",
	"acquirer_ref", "created_at", "updated_at",
}

// PgTransactionRepo persists transactions in Postgres.
type PgTransactionRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

var _ transaction.Repo = (*PgTransactionRepo)(nil)

func NewPgTransactionRepo(pg *postgres.Postgres) *PgTransactionRepo {
	return &PgTransactionRepo{db: pg.Pool, builder: pg.Builder}
}

func (r *PgTransactionRepo) GetByReference(ctx context.Context, reference string) (transaction.Transaction, error) {
	return r.getOne(ctx, squirrel.Eq{"reference": reference})
}

func (r *PgTransactionRepo) GetByAccessToken(ctx context.Context, accessToken string) (transaction.Transaction, error) {
	return r.getOne(ctx, squirrel.Eq{"access_token": accessToken})
}

func (r *PgTransactionRepo) getOne(ctx context.Context, where squirrel.Eq) (transaction.Transaction, error) {
	query, args, err := r.builder.Select(columns...).
		From("transactions").
		Where(where).
		ToSql()
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("build select query: %w", err)
	}

	tx, err := parseTransactionRow(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return transaction.Transaction{}, apperror.ErrTransactionNotFound
	}
	if err != nil {
		return transaction.Transaction{}, fmt.Errorf("query transaction: %w", err)
	}
	return tx, nil
}

func (r *PgTransactionRepo) Create(ctx context.Context, tx transaction.Transaction) error {
	query, args, err := r.builder.Insert("transactions").
		Columns(columns...).
		Values(tx.Reference, tx.AcquirerID, tx.Amount, tx.Currency, tx.PartnerEmail,
			tx.InvoiceNumber, tx.AccessToken, tx.ReturnURL, tx.State, tx.StateMessage,
			tx.AcquirerRef, tx.CreatedAt, tx.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if postgres.IsPgErrorUniqueViolation(err) {
		return fmt.Errorf("transaction %s already exists: %w", tx.Reference, err)
	}
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *PgTransactionRepo) SetValidated(ctx context.Context, reference string, state transaction.State, stateMessage, acquirerRef string) error {
	query, args, err := r.builder.Update("transactions").
		Set("state", state).
		Set("state_message", stateMessage).
		Set("acquirer_ref", acquirerRef).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"reference": reference}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.ErrTransactionNotFound
	}
	return nil
}
