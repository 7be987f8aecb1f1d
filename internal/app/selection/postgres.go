package selection

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplan/internal/app/observability/metrics"
)

// PgxDB is the slice of pgxpool.Pool the KV store needs; pgxmock satisfies it.
type PgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresKV persists client state in the client_state table. The KV contract
// is synchronous and error-free, so failures are logged and treated as a miss;
// the Store's in-memory mirror keeps the session coherent regardless.
type PostgresKV struct {
	db     PgxDB
	psql   sq.StatementBuilderType
	logger *zap.Logger
}

func NewPostgresKV(db PgxDB, logger *zap.Logger) *PostgresKV {
	return &PostgresKV{
		db:     db,
		psql:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: logger,
	}
}

func (s *PostgresKV) Get(key string) (string, bool) {
	query, args, err := s.psql.
		Select("value").
		From("client_state").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		s.logger.Error("Failed to build client_state select", zap.Error(err))
		return "", false
	}

	var value string
	err = s.db.QueryRow(context.Background(), query, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false
	}
	if err != nil {
		s.logger.Warn("Failed to read client_state", zap.String("key", key), zap.Error(err))
		countDBError("select")
		return "", false
	}
	return value, true
}

func (s *PostgresKV) Set(key, value string) {
	query, args, err := s.psql.
		Insert("client_state").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
	if err != nil {
		s.logger.Error("Failed to build client_state upsert", zap.Error(err))
		return
	}
	if _, err := s.db.Exec(context.Background(), query, args...); err != nil {
		s.logger.Warn("Failed to persist client_state", zap.String("key", key), zap.Error(err))
		countDBError("upsert")
	}
}

func (s *PostgresKV) Remove(key string) {
	query, args, err := s.psql.
		Delete("client_state").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		s.logger.Error("Failed to build client_state delete", zap.Error(err))
		return
	}
	if _, err := s.db.Exec(context.Background(), query, args...); err != nil {
		s.logger.Warn("Failed to remove client_state", zap.String("key", key), zap.Error(err))
		countDBError("delete")
	}
}

func countDBError(op string) {
	if m := metrics.Maybe(); m != nil {
		m.DBQueryErrorsTotal.Add(context.Background(), 1,
			metric.WithAttributes(
				attribute.String("table", "client_state"),
				attribute.String("op", op),
			))
	}
}
