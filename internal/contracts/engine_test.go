package contracts_test

import (
	"testing"

	"code.assetex.io/assetex/internal/contracts"
	"code.assetex.io/assetex/internal/contracts/mocks"
	"code.assetex.io/assetex/internal/logging"
	"code.assetex.io/assetex/internal/storage"
	"code.assetex.io/assetex/internal/types"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEngine struct {
	*contracts.Engine
	ctrl    *gomock.Controller
	matcher *mocks.MockMatcher
	store   storage.Store
}

func getTestEngine(t *testing.T) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	matcher := mocks.NewMockMatcher(ctrl)
	engine := contracts.New(logging.NewTestLogger(), contracts.NewDefaultConfig(), matcher)
	return &testEngine{
		Engine:  engine,
		ctrl:    ctrl,
		matcher: matcher,
		store:   storage.NewMemoryStore(),
	}
}

func (eng *testEngine) seed(t *testing.T, key string, doc interface{}) {
	t.Helper()
	require.NoError(t, eng.store.Update(func(tx storage.Tx) error {
		return storage.PutDoc(tx, key, doc)
	}))
}

func TestPutSell(t *testing.T) {
	t.Run("admitted contract is matched once", testPutSellMatchedOnce)
	t.Run("selling an asset the owner does not hold fails", testPutSellNotOwned)
	t.Run("second open sell on the same asset conflicts", testPutSellDoubleListing)
	t.Run("fulfilled sell does not block a new listing", testPutSellAfterFulfilled)
}

func testPutSellMatchedOnce(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.seed(t, "A1", types.NewAsset("A1", "alice", 500, 1))
	eng.matcher.EXPECT().Match(gomock.Any(), gomock.Any()).Times(1).Return(false, nil)

	err := eng.store.Update(func(tx storage.Tx) error {
		c, err := eng.PutSell(tx, "S1", "alice", 500, "A1")
		require.NoError(t, err)
		assert.Equal(t, types.SideSell, c.Side)
		assert.Equal(t, "A1", c.AssetID)
		assert.False(t, c.Fulfilled)
		return nil
	})
	require.NoError(t, err)
}

func testPutSellNotOwned(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.seed(t, "A1", types.NewAsset("A1", "alice", 500, 1))

	err := eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.PutSell(tx, "S1", "bob", 500, "A1")
		return err
	})
	assert.True(t, types.IsUnauthorizedOwnership(err))
}

func testPutSellDoubleListing(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.seed(t, "A1", types.NewAsset("A1", "alice", 500, 1))
	eng.matcher.EXPECT().Match(gomock.Any(), gomock.Any()).Return(false, nil)

	require.NoError(t, eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.PutSell(tx, "S1", "alice", 500, "A1")
		return err
	}))

	err := eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.PutSell(tx, "S2", "alice", 400, "A1")
		return err
	})
	assert.True(t, types.IsConflict(err))
}

func testPutSellAfterFulfilled(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.seed(t, "A1", types.NewAsset("A1", "alice", 500, 1))
	closed := types.NewSellContract("S1", "alice", 500, "A1")
	closed.Fulfilled = true
	closed.MatchedWith = "B1"
	eng.seed(t, "S1", closed)
	eng.matcher.EXPECT().Match(gomock.Any(), gomock.Any()).Return(false, nil)

	err := eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.PutSell(tx, "S2", "alice", 600, "A1")
		return err
	})
	require.NoError(t, err)
}

func TestPutBuy(t *testing.T) {
	t.Run("admitted contract is matched once", testPutBuyMatchedOnce)
	t.Run("no wallet fails", testPutBuyNoWallet)
	t.Run("balance below price fails", testPutBuyInsufficientFunds)
	t.Run("duplicate contract id conflicts", testPutBuyDuplicateID)
}

func testPutBuyMatchedOnce(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.seed(t, "bob", types.NewWallet("bob", 1000))
	eng.matcher.EXPECT().Match(gomock.Any(), gomock.Any()).Times(1).Return(false, nil)

	err := eng.store.Update(func(tx storage.Tx) error {
		c, err := eng.PutBuy(tx, "B1", "bob", 500)
		require.NoError(t, err)
		assert.Equal(t, types.SideBuy, c.Side)
		assert.Empty(t, c.AssetID)
		return nil
	})
	require.NoError(t, err)
}

func testPutBuyNoWallet(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	err := eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.PutBuy(tx, "B1", "bob", 500)
		return err
	})
	assert.True(t, types.IsNotFound(err))
}

func testPutBuyInsufficientFunds(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.seed(t, "bob", types.NewWallet("bob", 499))

	err := eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.PutBuy(tx, "B1", "bob", 500)
		return err
	})
	assert.True(t, types.IsInsufficientFunds(err))
}

func testPutBuyDuplicateID(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.seed(t, "bob", types.NewWallet("bob", 1000))
	eng.matcher.EXPECT().Match(gomock.Any(), gomock.Any()).Return(false, nil)

	require.NoError(t, eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.PutBuy(tx, "B1", "bob", 500)
		return err
	}))

	err := eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.PutBuy(tx, "B1", "bob", 500)
		return err
	})
	assert.True(t, types.IsConflict(err))
}

func TestContractsByOwner(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.seed(t, "bob", types.NewWallet("bob", 1000))
	eng.seed(t, "A1", types.NewAsset("A1", "bob", 500, 1))
	eng.seed(t, "B1", types.NewBuyContract("B1", "bob", 500))

	eng.store.View(func(tx storage.Tx) error {
		kvs, err := eng.ByOwner(tx, "bob")
		require.NoError(t, err)
		// everything but the asset, the wallet document included
		require.Len(t, kvs, 2)
		assert.Equal(t, "B1", kvs[0].Key)
		assert.Equal(t, "bob", kvs[1].Key)
		return nil
	})
}
