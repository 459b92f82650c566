//go:build integration
// +build integration

package transaction_repo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scisoft/vnpay-checkout/internal/apperror"
	"github.com/scisoft/vnpay-checkout/internal/domain/transaction"
	transaction_repo "github.com/scisoft/vnpay-checkout/internal/repo/transaction"
	"github.com/scisoft/vnpay-checkout/internal/testinfra"
)

var pg *testinfra.PostgresContainer

func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	pg, err = testinfra.NewPostgres(ctx)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	pg.Cleanup(ctx)
	os.Exit(code)
}

func seedAcquirer(t *testing.T) int {
	t.Helper()
	var id int
	err := pg.Pool.Pool.QueryRow(context.Background(),
		`INSERT INTO acquirers (provider, company, publishable_key, secret_key)
		 VALUES ('vnpay', 'Shop', 'pk_test_123', 'sk_test_456') RETURNING id`).Scan(&id)
	require.NoError(t, err)
	return id
}

func newTransaction(acquirerID int, reference string) transaction.Transaction {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return transaction.Transaction{
		Reference:     reference,
		AcquirerID:    acquirerID,
		Amount:        12.50,
		Currency:      "USD",
		PartnerEmail:  "buyer@example.com",
		InvoiceNumber: reference,
		AccessToken:   "tok-" + reference,
		ReturnURL:     "/shop/payment/validate",
		State:         transaction.StateDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestTransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, pg.Truncate(ctx))

	repo := transaction_repo.NewPgTransactionRepo(pg.Pool)
	acquirerID := seedAcquirer(t)
	tx := newTransaction(acquirerID, "SO042")

	require.NoError(t, repo.Create(ctx, tx))

	byRef, err := repo.GetByReference(ctx, "SO042")
	require.NoError(t, err)
	assert.Equal(t, tx.AccessToken, byRef.AccessToken)
	assert.Equal(t, transaction.StateDraft, byRef.State)

	byToken, err := repo.GetByAccessToken(ctx, tx.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "SO042", byToken.Reference)

	require.NoError(t, repo.SetValidated(ctx, "SO042", transaction.StateDone, "", "ch_1"))

	validated, err := repo.GetByReference(ctx, "SO042")
	require.NoError(t, err)
	assert.Equal(t, transaction.StateDone, validated.State)
	assert.Equal(t, "ch_1", validated.AcquirerRef)
	assert.True(t, validated.UpdatedAt.After(tx.UpdatedAt) || validated.UpdatedAt.Equal(tx.UpdatedAt))
}

func TestCreate_DuplicateReference(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, pg.Truncate(ctx))

	repo := transaction_repo.NewPgTransactionRepo(pg.Pool)
	acquirerID := seedAcquirer(t)
	tx := newTransaction(acquirerID, "SO043")

	require.NoError(t, repo.Create(ctx, tx))

	err := repo.Create(ctx, tx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestGetByReference_Missing(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, pg.Truncate(ctx))

	repo := transaction_repo.NewPgTransactionRepo(pg.Pool)

	_, err := repo.GetByReference(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)
}

func TestSetValidated_Missing(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, pg.Truncate(ctx))

	repo := transaction_repo.NewPgTransactionRepo(pg.Pool)

	err := repo.SetValidated(ctx, "missing", transaction.StateDone, "", "ch_1")
	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)
}
