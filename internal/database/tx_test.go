package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("begin error", func(t *testing.T) {
		db := &FakeDB{BeginFn: func(context.Context) (pgx.Tx, error) { return nil, errors.New("down") }}
		called := false
		err := WithTx(ctx, db, func(Querier) error { called = true; return nil })
		require.ErrorContains(t, err, "begin tx")
		require.False(t, called)
	})

	t.Run("fn error rolls back", func(t *testing.T) {
		tx := &FakeTx{}
		err := WithTx(ctx, TxDB(tx), func(Querier) error { return errors.New("boom") })
		require.EqualError(t, err, "boom")
		require.False(t, tx.Committed)
		require.True(t, tx.RolledBack)
	})

	t.Run("commit error", func(t *testing.T) {
		tx := &FakeTx{CommitFn: func(context.Context) error { return errors.New("c") }}
		err := WithTx(ctx, TxDB(tx), func(Querier) error { return nil })
		require.ErrorContains(t, err, "commit tx")
	})

	t.Run("success commits", func(t *testing.T) {
		tx := &FakeTx{}
		var got Querier
		err := WithTx(ctx, TxDB(tx), func(q Querier) error { got = q; return nil })
		require.NoError(t, err)
		require.Same(t, tx, got)
		require.True(t, tx.Committed)
		require.False(t, tx.RolledBack)
	})
}
