package eventsink

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/scisoft/vnpay-checkout/internal/domain/transaction"
	"github.com/scisoft/vnpay-checkout/pkg/postgres"
)

// PgEventSink appends transaction state changes to the audit log table.
type PgEventSink struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

var _ transaction.EventSink = (*PgEventSink)(nil)

func NewPgEventSink(pg *postgres.Postgres) *PgEventSink {
	return &PgEventSink{db: pg.Pool, builder: pg.Builder}
}

func (r *PgEventSink) Record(ctx context.Context, event transaction.Event) error {
	id := uuid.New().String()

	query, args, err := r.builder.Insert("transaction_events").
		Columns("id", "reference", "state", "message", "created_at").
		Values(id, event.Reference, event.State, event.Message, event.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("create transaction event: %w", err)
	}
	return nil
}
