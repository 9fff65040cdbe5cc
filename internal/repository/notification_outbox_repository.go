package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/complaint-desk/internal/domain"
)

const outboxTable = "notification_outbox"

// Querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OutboxEntry is a stored notification awaiting an external mailer.
type OutboxEntry struct {
	ID        int64
	Request   domain.NotificationRequest
	CreatedAt time.Time
}

// NotificationOutboxRepository records deliverable notifications in Postgres.
type NotificationOutboxRepository struct {
	db      Querier
	builder sq.StatementBuilderType
}

// NewNotificationOutboxRepository builds the repository.
func NewNotificationOutboxRepository(db Querier) *NotificationOutboxRepository {
	return &NotificationOutboxRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Name identifies the sink in logs and metrics.
func (r *NotificationOutboxRepository) Name() string { return "postgres_outbox" }

// Deliver stores req in the outbox.
func (r *NotificationOutboxRepository) Deliver(ctx context.Context, req domain.NotificationRequest) error {
	_, err := r.Insert(ctx, req)
	return err
}

// Insert writes a row and returns it with its generated id.
func (r *NotificationOutboxRepository) Insert(ctx context.Context, req domain.NotificationRequest) (*OutboxEntry, error) {
	query, args, err := r.builder.
		Insert(outboxTable).
		Columns("kind", "complaint_id", "recipient_email", "subject", "body").
		Values(string(req.Kind), req.ComplaintID, req.RecipientEmail, req.Subject, req.Body).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build outbox insert: %w", err)
	}

	entry := &OutboxEntry{Request: req}
	if err := r.db.QueryRow(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert outbox entry: %w", err)
	}
	return entry, nil
}
