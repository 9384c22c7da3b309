package storage

import (
	"testing"

	"code.assetex.io/assetex/internal/logging"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadger(t *testing.T) Store {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Directory = t.TempDir()
	cfg.SyncWrites = false
	store, err := NewBadgerStore(logging.NewTestLogger(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBadgerStore_RoundTrip(t *testing.T) {
	store := newTestBadger(t)

	err := store.Update(func(tx Tx) error {
		return tx.Put("w1", []byte(`{"doctype":"wallet","owner":"w1","balance":5}`))
	})
	require.NoError(t, err)

	err = store.View(func(tx Tx) error {
		data, err := tx.Get("w1")
		require.NoError(t, err)
		assert.Contains(t, string(data), `"balance":5`)

		_, err = tx.Get("absent")
		assert.True(t, errors.Is(err, ErrKeyNotFound))
		return nil
	})
	require.NoError(t, err)
}

func TestBadgerStore_QuerySeesPendingWrites(t *testing.T) {
	store := newTestBadger(t)

	err := store.Update(func(tx Tx) error {
		require.NoError(t, tx.Put("a1", []byte(`{"doctype":"asset","id":"a1","owner":"alice"}`)))
		kvs, err := tx.Query(Selector{Doctype: "asset", ID: "a1"})
		require.NoError(t, err)
		require.Len(t, kvs, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestBadgerStore_FailedUpdateDiscarded(t *testing.T) {
	store := newTestBadger(t)

	boom := errors.New("boom")
	err := store.Update(func(tx Tx) error {
		require.NoError(t, tx.Put("k", []byte("{}")))
		return boom
	})
	assert.True(t, errors.Is(err, boom))

	store.View(func(tx Tx) error {
		_, err := tx.Get("k")
		assert.True(t, errors.Is(err, ErrKeyNotFound))
		return nil
	})
}
