package selection

import (
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPostgresKV(t *testing.T) {
	logger := zap.NewNop()

	t.Run("get hit", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM client_state WHERE key = $1")).
			WithArgs("tripplan.selected_trip").
			WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("7"))

		kv := NewPostgresKV(mock, logger)
		value, ok := kv.Get("tripplan.selected_trip")
		assert.True(t, ok)
		assert.Equal(t, "7", value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get miss", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM client_state WHERE key = $1")).
			WithArgs("missing").
			WillReturnRows(pgxmock.NewRows([]string{"value"}))

		kv := NewPostgresKV(mock, logger)
		_, ok := kv.Get("missing")
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set upserts", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(regexp.QuoteMeta(
			"INSERT INTO client_state (key,value) VALUES ($1,$2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()")).
			WithArgs("tripplan.view", "hotels").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		kv := NewPostgresKV(mock, logger)
		kv.Set("tripplan.view", "hotels")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("remove deletes", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM client_state WHERE key = $1")).
			WithArgs("tripplan.selected_trip").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		kv := NewPostgresKV(mock, logger)
		kv.Remove("tripplan.selected_trip")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure reads as a miss", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM client_state WHERE key = $1")).
			WithArgs("k").
			WillReturnError(assert.AnError)

		kv := NewPostgresKV(mock, logger)
		_, ok := kv.Get("k")
		assert.False(t, ok)
	})
}
