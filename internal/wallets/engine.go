package wallets

import (
	"code.assetex.io/assetex/internal/logging"
	"code.assetex.io/assetex/internal/storage"
	"code.assetex.io/assetex/internal/types"

	"github.com/pkg/errors"
)

// Engine is the wallet ledger. It owns wallet creation and lookup;
// balances are only ever mutated by the settlement engine as part of a
// match, never through this API.
type Engine struct {
	log *logging.Logger
	Config
}

func New(log *logging.Logger, conf Config) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())

	return &Engine{
		log:    log,
		Config: conf,
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

// Create persists a wallet for owner. The owner name is the store key,
// creation fails if any document already lives under it.
func (e *Engine) Create(tx storage.Tx, owner string, balance int64) (*types.Wallet, error) {
	if owner == "" {
		return nil, errors.Wrap(types.ErrValidation, "owner must not be empty")
	}
	if balance < 0 {
		return nil, errors.Wrap(types.ErrValidation, "initial balance must not be negative")
	}
	exists, err := storage.Exists(tx, owner)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Wrapf(types.ErrConflict, "wallet %s", owner)
	}
	w := types.NewWallet(owner, balance)
	if err := storage.PutDoc(tx, owner, w); err != nil {
		return nil, err
	}
	e.log.Debug("wallet created",
		logging.String("owner", owner),
		logging.Int64("balance", balance),
	)
	return w, nil
}

// Get resolves a wallet through a selector query on owner, mirroring
// the wire-level lookup the store exposes to other document types.
func (e *Engine) Get(tx storage.Tx, owner string) (*types.Wallet, error) {
	kvs, err := tx.Query(storage.Selector{
		Doctype: types.DoctypeWallet,
		Owner:   owner,
	})
	if err != nil {
		return nil, err
	}
	if len(kvs) == 0 {
		return nil, errors.Wrapf(types.ErrNotFound, "wallet %s", owner)
	}
	w := &types.Wallet{}
	if err := storage.GetDoc(tx, kvs[0].Key, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Has reports whether owner holds a wallet. Contract and asset admission
// both require wallet membership.
func (e *Engine) Has(tx storage.Tx, owner string) (bool, error) {
	kvs, err := tx.Query(storage.Selector{
		Doctype: types.DoctypeWallet,
		Owner:   owner,
	})
	if err != nil {
		return false, err
	}
	return len(kvs) > 0, nil
}
