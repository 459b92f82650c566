package acquirer_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/scisoft/vnpay-checkout/internal/apperror"
	"github.com/scisoft/vnpay-checkout/internal/domain/acquirer"
	"github.com/scisoft/vnpay-checkout/pkg/postgres"
)

// PgAcquirerRepo reads acquirer configuration from Postgres.
type PgAcquirerRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

var _ acquirer.Repo = (*PgAcquirerRepo)(nil)

func NewPgAcquirerRepo(pg *postgres.Postgres) *PgAcquirerRepo {
	return &PgAcquirerRepo{db: pg.Pool, builder: pg.Builder}
}

func (r *PgAcquirerRepo) GetByID(ctx context.Context, id int) (acquirer.Acquirer, error) {
	query, args, err := r.builder.
		Select("id", "provider", "company", "publishable_key", "secret_key", "image_url", "environment").
		From("acquirers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return acquirer.Acquirer{}, fmt.Errorf("build select query: %w", err)
	}

	var a acquirer.Acquirer
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.Provider, &a.Company, &a.PublishableKey, &a.SecretKey, &a.ImageURL, &a.Environment,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return acquirer.Acquirer{}, apperror.ErrAcquirerNotFound
	}
	if err != nil {
		return acquirer.Acquirer{}, fmt.Errorf("query acquirer: %w", err)
	}
	return a, nil
}
