package settlement

import (
	"code.assetex.io/assetex/internal/logging"
	"code.assetex.io/assetex/internal/metrics"
	"code.assetex.io/assetex/internal/storage"
	"code.assetex.io/assetex/internal/types"

	"github.com/pkg/errors"
)

// Engine performs the delivery-versus-payment step after a match: the
// asset's owner is rewritten to the buyer and the price moves from the
// buyer's wallet to the seller's. All writes land in the enclosing
// store transaction, so transfer and payment commit together or not at
// all; an error from either step discards the whole write-set,
// including the contract latches upstream.
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

// Settle transfers assetID from seller to buyer and pays the price the
// other way. Ownership is re-verified against the current snapshot to
// guard against stale match data.
func (e *Engine) Settle(tx storage.Tx, seller, buyer, assetID string, price int64) error {
	kvs, err := tx.Query(storage.Selector{
		Doctype: types.DoctypeAsset,
		Owner:   seller,
		ID:      assetID,
	})
	if err != nil {
		return err
	}
	if len(kvs) == 0 {
		return errors.Wrapf(types.ErrUnauthorizedOwnership, "%s does not own asset %s", seller, assetID)
	}
	a := &types.Asset{}
	if err := storage.GetDoc(tx, kvs[0].Key, a); err != nil {
		return err
	}
	a.Owner = buyer
	if err := storage.PutDoc(tx, a.ID, a); err != nil {
		return err
	}
	if err := e.makePayment(tx, seller, buyer, price); err != nil {
		return err
	}
	e.log.Info("settlement complete",
		logging.String("asset", assetID),
		logging.String("seller", seller),
		logging.String("buyer", buyer),
		logging.Int64("price", price),
	)
	metrics.SettlementCounterInc()
	return nil
}

// makePayment credits the seller and debits the buyer. The buyer's
// balance is re-checked here: the admission-time check does not reserve
// funds, so a buyer may no longer cover the price by the time a match
// settles. Rejecting late keeps balances non-negative; the aborted
// transaction leaves both contracts open.
func (e *Engine) makePayment(tx storage.Tx, seller, buyer string, price int64) error {
	sw, err := e.wallet(tx, seller)
	if err != nil {
		return err
	}
	bw, err := e.wallet(tx, buyer)
	if err != nil {
		return err
	}
	if bw.Balance < price {
		return errors.Wrapf(types.ErrInsufficientFunds, "buyer %s holds %d, settlement price is %d", buyer, bw.Balance, price)
	}
	sw.Balance += price
	bw.Balance -= price
	if err := storage.PutDoc(tx, sw.Owner, sw); err != nil {
		return err
	}
	return storage.PutDoc(tx, bw.Owner, bw)
}

func (e *Engine) wallet(tx storage.Tx, owner string) (*types.Wallet, error) {
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
