package assets_test

import (
	"testing"

	"code.assetex.io/assetex/internal/assets"
	"code.assetex.io/assetex/internal/assets/mocks"
	"code.assetex.io/assetex/internal/crypto"
	"code.assetex.io/assetex/internal/logging"
	"code.assetex.io/assetex/internal/storage"
	"code.assetex.io/assetex/internal/types"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEngine struct {
	*assets.Engine
	ctrl    *gomock.Controller
	parties *mocks.MockParties
	book    *mocks.MockContractBook
	store   storage.Store
}

func getTestEngine(t *testing.T) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	parties := mocks.NewMockParties(ctrl)
	book := mocks.NewMockContractBook(ctrl)
	engine := assets.New(logging.NewTestLogger(), assets.NewDefaultConfig(), parties, book)
	return &testEngine{
		Engine:  engine,
		ctrl:    ctrl,
		parties: parties,
		book:    book,
		store:   storage.NewMemoryStore(),
	}
}

func TestAssetCreate(t *testing.T) {
	t.Run("create admits a sell contract for the full price", testCreateAdmitsSell)
	t.Run("create without a wallet fails", testCreateNoWallet)
	t.Run("duplicate asset id conflicts", testCreateDuplicate)
	t.Run("negative price rejected", testCreateNegativePrice)
}

func testCreateAdmitsSell(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.parties.EXPECT().Has(gomock.Any(), "alice").Return(true, nil)
	eng.book.EXPECT().
		PutSell(gomock.Any(), crypto.HashID("A1"), "alice", int64(500), "A1").
		Return(&types.Contract{}, nil)

	err := eng.store.Update(func(tx storage.Tx) error {
		a, err := eng.Create(tx, "A1", "alice", 500, 42)
		require.NoError(t, err)
		assert.Equal(t, types.DoctypeAsset, a.Doctype)
		assert.Equal(t, "alice", a.Owner)
		assert.Equal(t, types.AssetStateInitialised, a.State)
		assert.Equal(t, int64(42), a.CreatedAt)
		return nil
	})
	require.NoError(t, err)
}

func testCreateNoWallet(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.parties.EXPECT().Has(gomock.Any(), "bob").Return(false, nil)

	err := eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.Create(tx, "A1", "bob", 500, 42)
		return err
	})
	assert.True(t, types.IsNotFound(err))
}

func testCreateDuplicate(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.parties.EXPECT().Has(gomock.Any(), "alice").Times(2).Return(true, nil)
	eng.book.EXPECT().
		PutSell(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&types.Contract{}, nil)

	err := eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.Create(tx, "A1", "alice", 500, 42)
		return err
	})
	require.NoError(t, err)

	err = eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.Create(tx, "A1", "alice", 700, 43)
		return err
	})
	assert.True(t, types.IsConflict(err))
}

func testCreateNegativePrice(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	err := eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.Create(tx, "A1", "alice", -1, 42)
		return err
	})
	assert.True(t, types.IsValidation(err))
}

func TestAssetTransfer(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.parties.EXPECT().Has(gomock.Any(), "alice").Return(true, nil)
	eng.book.EXPECT().
		PutSell(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&types.Contract{}, nil)

	require.NoError(t, eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.Create(tx, "A1", "alice", 500, 42)
		return err
	}))

	err := eng.store.Update(func(tx storage.Tx) error {
		a, err := eng.Transfer(tx, "A1", "bob")
		require.NoError(t, err)
		assert.Equal(t, "bob", a.Owner)
		return nil
	})
	require.NoError(t, err)

	err = eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.Transfer(tx, "missing", "bob")
		return err
	})
	assert.True(t, types.IsNotFound(err))
}

func TestAssetUpdateState(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.parties.EXPECT().Has(gomock.Any(), "alice").Return(true, nil)
	eng.book.EXPECT().
		PutSell(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&types.Contract{}, nil)

	require.NoError(t, eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.Create(tx, "A1", "alice", 500, 42)
		return err
	}))

	err := eng.store.Update(func(tx storage.Tx) error {
		a, err := eng.UpdateState(tx, "A1", "listed", 99)
		require.NoError(t, err)
		assert.Equal(t, "listed", a.State)
		assert.Equal(t, int64(99), a.UpdatedAt)
		assert.Equal(t, int64(42), a.CreatedAt)
		return nil
	})
	require.NoError(t, err)

	err = eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.UpdateState(tx, "A1", "", 100)
		return err
	})
	assert.True(t, types.IsValidation(err))
}

func TestAssetByOwner(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	eng.parties.EXPECT().Has(gomock.Any(), gomock.Any()).Times(3).Return(true, nil)
	eng.book.EXPECT().
		PutSell(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Times(3).
		Return(&types.Contract{}, nil)

	require.NoError(t, eng.store.Update(func(tx storage.Tx) error {
		for _, a := range []struct {
			id, owner string
		}{
			{"A2", "alice"},
			{"A1", "alice"},
			{"B1", "bob"},
		} {
			if _, err := eng.Create(tx, a.id, a.owner, 100, 1); err != nil {
				return err
			}
		}
		return nil
	}))

	eng.store.View(func(tx storage.Tx) error {
		held, err := eng.ByOwner(tx, "alice")
		require.NoError(t, err)
		require.Len(t, held, 2)
		// key order, not insertion order
		assert.Equal(t, "A1", held[0].ID)
		assert.Equal(t, "A2", held[1].ID)
		return nil
	})
}

func TestAssetGetRejectsForeignDoctype(t *testing.T) {
	eng := getTestEngine(t)
	defer eng.ctrl.Finish()

	require.NoError(t, eng.store.Update(func(tx storage.Tx) error {
		return storage.PutDoc(tx, "alice", types.NewWallet("alice", 100))
	}))

	err := eng.store.Update(func(tx storage.Tx) error {
		_, err := eng.Transfer(tx, "alice", "bob")
		return err
	})
	assert.True(t, types.IsNotFound(err))
}
