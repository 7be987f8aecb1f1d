// Package messagelog persists assistant replies so conversation history
// survives restarts. The view state machine keeps its own in-memory copy;
// this repository only feeds it on startup and records new arrivals.
package messagelog

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/models"
	"github.com/FACorreiaa/go-tripplan/internal/app/observability/metrics"
)

// PgxDB is the slice of pgxpool.Pool the repository needs; pgxmock satisfies it.
type PgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repo struct {
	db     PgxDB
	sb     sq.StatementBuilderType
	logger *zap.Logger
}

func NewRepo(db PgxDB, logger *zap.Logger) *Repo {
	return &Repo{
		db:     db,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: logger,
	}
}

// Append stores one assistant message.
func (r *Repo) Append(ctx context.Context, msg models.ChatMessage) error {
	query, args, err := r.sb.
		Insert("message_log").
		Columns("id", "content", "received_at").
		Values(msg.ID, msg.Content, msg.ReceivedAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("building message insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		countDBError(ctx, "insert")
		return fmt.Errorf("appending message: %w", err)
	}
	return nil
}

// Recent returns up to limit messages in receipt order, oldest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	query, args, err := r.sb.
		Select("id", "content", "received_at").
		From("message_log").
		OrderBy("received_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building message select: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		countDBError(ctx, "select")
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.Content, &msg.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query walks backwards from the newest row; flip to receipt order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func countDBError(ctx context.Context, op string) {
	if m := metrics.Maybe(); m != nil {
		m.DBQueryErrorsTotal.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("table", "message_log"),
				attribute.String("op", op),
			))
	}
}
