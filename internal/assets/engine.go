package assets

import (
	"code.assetex.io/assetex/internal/crypto"
	"code.assetex.io/assetex/internal/logging"
	"code.assetex.io/assetex/internal/storage"
	"code.assetex.io/assetex/internal/types"

	"github.com/pkg/errors"
)

// Parties answers wallet membership checks during asset admission.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/parties_mock.go -package mocks code.assetex.io/assetex/internal/assets Parties
type Parties interface {
	Has(tx storage.Tx, owner string) (bool, error)
}

// ContractBook admits the sell contract derived from a freshly
// registered asset.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/contract_book_mock.go -package mocks code.assetex.io/assetex/internal/assets ContractBook
type ContractBook interface {
	PutSell(tx storage.Tx, id, owner string, price int64, assetID string) (*types.Contract, error)
}

// Engine is the asset registry: creation, administrative transfer,
// lifecycle state and ownership queries.
type Engine struct {
	log *logging.Logger
	Config
	parties Parties
	book    ContractBook
}

func New(log *logging.Logger, conf Config, parties Parties, book ContractBook) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())

	return &Engine{
		log:     log,
		Config:  conf,
		parties: parties,
		book:    book,
	}
}

func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}

	e.Config = cfg
}

// Create registers an asset for owner and admits a sell contract for
// its full price. The contract id is the content hash of the asset id,
// a pure function of the inputs so re-execution derives the same id.
// The timestamp comes from the transaction context.
func (e *Engine) Create(tx storage.Tx, id, owner string, price, ts int64) (*types.Asset, error) {
	if id == "" {
		return nil, errors.Wrap(types.ErrValidation, "asset id must not be empty")
	}
	if price < 0 {
		return nil, errors.Wrap(types.ErrValidation, "asset price must not be negative")
	}
	hasWallet, err := e.parties.Has(tx, owner)
	if err != nil {
		return nil, err
	}
	if !hasWallet {
		return nil, errors.Wrapf(types.ErrNotFound, "no wallet for owner %s", owner)
	}
	exists, err := storage.Exists(tx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrapf(types.ErrConflict, "asset %s", id)
	}
	a := types.NewAsset(id, owner, price, ts)
	if err := storage.PutDoc(tx, id, a); err != nil {
		return nil, err
	}
	if _, err := e.book.PutSell(tx, crypto.HashID(id), owner, price, id); err != nil {
		return nil, err
	}
	e.log.Debug("asset created",
		logging.String("id", id),
		logging.String("owner", owner),
		logging.Int64("price", price),
	)
	return a, nil
}

// Transfer rewrites the asset's owner directly, bypassing settlement.
// This is an administrative escape hatch: no payment is made and no
// contract state changes.
func (e *Engine) Transfer(tx storage.Tx, id, newOwner string) (*types.Asset, error) {
	a, err := e.get(tx, id)
	if err != nil {
		return nil, err
	}
	a.Owner = newOwner
	if err := storage.PutDoc(tx, id, a); err != nil {
		return nil, err
	}
	e.log.Debug("asset transferred",
		logging.String("id", id),
		logging.String("owner", newOwner),
	)
	return a, nil
}

// UpdateState rewrites the lifecycle tag and refreshes the updatedAt
// timestamp from the transaction context.
func (e *Engine) UpdateState(tx storage.Tx, id, state string, ts int64) (*types.Asset, error) {
	if state == "" {
		return nil, errors.Wrap(types.ErrValidation, "state must not be empty")
	}
	a, err := e.get(tx, id)
	if err != nil {
		return nil, err
	}
	a.State = state
	a.UpdatedAt = ts
	if err := storage.PutDoc(tx, id, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ByOwner returns every asset document held by owner.
func (e *Engine) ByOwner(tx storage.Tx, owner string) ([]*types.Asset, error) {
	kvs, err := tx.Query(storage.Selector{
		Doctype: types.DoctypeAsset,
		Owner:   owner,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*types.Asset, 0, len(kvs))
	for _, kv := range kvs {
		a := &types.Asset{}
		if err := storage.GetDoc(tx, kv.Key, a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (e *Engine) get(tx storage.Tx, id string) (*types.Asset, error) {
	a := &types.Asset{}
	if err := storage.GetDoc(tx, id, a); err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, errors.Wrapf(types.ErrNotFound, "asset %s", id)
		}
		return nil, err
	}
	if a.Doctype != types.DoctypeAsset {
		return nil, errors.Wrapf(types.ErrNotFound, "asset %s", id)
	}
	return a, nil
}
