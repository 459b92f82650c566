package acquirer_repo

import (
	"context"
	"regexp"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scisoft/vnpay-checkout/internal/apperror"
	"github.com/scisoft/vnpay-checkout/internal/domain/acquirer"
)

func newMockRepo(t *testing.T) (*PgAcquirerRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo := &PgAcquirerRepo{
		db:      mock,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	return repo, mock
}

func TestGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := pgxmock.NewRows([]string{"id", "provider", "company", "publishable_key", "secret_key", "image_url", "environment"}).
		AddRow(7, "vnpay", "Shop", "pk_test_123", "sk_test_456", "https://shop.example/logo.png", "test")

	mock.ExpectQuery(regexp.QuoteMeta("FROM acquirers WHERE id = $1")).
		WithArgs(7).
		WillReturnRows(rows)

	a, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, acquirer.Acquirer{
		ID:             7,
		Provider:       "vnpay",
		Company:        "Shop",
		PublishableKey: "pk_test_123",
		SecretKey:      "sk_test_456",
		ImageURL:       "https://shop.example/logo.png",
		Environment:    "test",
	}, a)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM acquirers WHERE id = $1")).
		WithArgs(99).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, apperror.ErrAcquirerNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
