package settlement_test

import (
	"testing"

	"code.assetex.io/assetex/internal/logging"
	"code.assetex.io/assetex/internal/settlement"
	"code.assetex.io/assetex/internal/storage"
	"code.assetex.io/assetex/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestEngine(t *testing.T) (*settlement.Engine, storage.Store) {
	t.Helper()
	engine := settlement.New(logging.NewTestLogger(), settlement.NewDefaultConfig())
	store := storage.NewMemoryStore()
	require.NoError(t, store.Update(func(tx storage.Tx) error {
		for k, doc := range map[string]interface{}{
			"alice": types.NewWallet("alice", 100),
			"bob":   types.NewWallet("bob", 1000),
			"A1":    types.NewAsset("A1", "alice", 400, 1),
		} {
			if err := storage.PutDoc(tx, k, doc); err != nil {
				return err
			}
		}
		return nil
	}))
	return engine, store
}

func wallet(t *testing.T, tx storage.Tx, owner string) *types.Wallet {
	t.Helper()
	w := &types.Wallet{}
	require.NoError(t, storage.GetDoc(tx, owner, w))
	return w
}

func TestSettle(t *testing.T) {
	t.Run("transfer and payment are zero sum", testSettleZeroSum)
	t.Run("seller must still own the asset", testSettleUnauthorized)
	t.Run("buyer short at settlement time aborts everything", testSettleInsufficientFunds)
}

func testSettleZeroSum(t *testing.T) {
	engine, store := getTestEngine(t)

	err := store.Update(func(tx storage.Tx) error {
		return engine.Settle(tx, "alice", "bob", "A1", 400)
	})
	require.NoError(t, err)

	store.View(func(tx storage.Tx) error {
		a := &types.Asset{}
		require.NoError(t, storage.GetDoc(tx, "A1", a))
		assert.Equal(t, "bob", a.Owner)

		aw := wallet(t, tx, "alice")
		bw := wallet(t, tx, "bob")
		assert.Equal(t, int64(500), aw.Balance)
		assert.Equal(t, int64(600), bw.Balance)
		assert.Equal(t, int64(1100), aw.Balance+bw.Balance)
		return nil
	})
}

func testSettleUnauthorized(t *testing.T) {
	engine, store := getTestEngine(t)

	err := store.Update(func(tx storage.Tx) error {
		return engine.Settle(tx, "bob", "alice", "A1", 400)
	})
	assert.True(t, types.IsUnauthorizedOwnership(err))
}

func testSettleInsufficientFunds(t *testing.T) {
	engine, store := getTestEngine(t)

	err := store.Update(func(tx storage.Tx) error {
		return engine.Settle(tx, "alice", "bob", "A1", 5000)
	})
	assert.True(t, types.IsInsufficientFunds(err))

	// nothing moved
	store.View(func(tx storage.Tx) error {
		a := &types.Asset{}
		require.NoError(t, storage.GetDoc(tx, "A1", a))
		assert.Equal(t, "alice", a.Owner)
		assert.Equal(t, int64(100), wallet(t, tx, "alice").Balance)
		assert.Equal(t, int64(1000), wallet(t, tx, "bob").Balance)
		return nil
	})
}

func TestSettleUnknownWallet(t *testing.T) {
	engine, store := getTestEngine(t)

	err := store.Update(func(tx storage.Tx) error {
		return engine.Settle(tx, "alice", "nobody", "A1", 400)
	})
	assert.True(t, types.IsNotFound(err))
}
