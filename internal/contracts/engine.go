package contracts

import (
	"code.assetex.io/assetex/internal/logging"
	"code.assetex.io/assetex/internal/storage"
	"code.assetex.io/assetex/internal/types"

	"github.com/pkg/errors"
)

// Matcher is invoked exactly once per admitted contract.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/matcher_mock.go -package mocks code.assetex.io/assetex/internal/contracts Matcher
type Matcher interface {
	Match(tx storage.Tx, c *types.Contract) (bool, error)
}

// Engine is the contract book: admission of buy/sell contracts and
// ownership queries. Every admitted contract triggers one matching
// pass; the book never matches anything itself.
type Engine struct {
	log *logging.Logger
	Config
	matcher Matcher
}

func New(log *logging.Logger, conf Config, matcher Matcher) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())

	return &Engine{
		log:     log,
		Config:  conf,
		matcher: matcher,
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

// PutSell admits a sell contract. The owner must currently hold the
// referenced asset and no other open sell contract may reference it.
func (e *Engine) PutSell(tx storage.Tx, id, owner string, price int64, assetID string) (*types.Contract, error) {
	if id == "" || assetID == "" {
		return nil, errors.Wrap(types.ErrValidation, "contract id and asset id must not be empty")
	}
	if price < 0 {
		return nil, errors.Wrap(types.ErrValidation, "contract price must not be negative")
	}
	owned, err := tx.Query(storage.Selector{
		Doctype: types.DoctypeAsset,
		Owner:   owner,
		ID:      assetID,
	})
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return nil, errors.Wrapf(types.ErrUnauthorizedOwnership, "%s does not own asset %s", owner, assetID)
	}
	open, err := tx.Query(storage.Selector{
		Doctype:   types.DoctypeContract,
		Side:      types.SideSell,
		AssetID:   assetID,
		Fulfilled: storage.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		return nil, errors.Wrapf(types.ErrConflict, "asset %s already has an open sell contract", assetID)
	}
	c := types.NewSellContract(id, owner, price, assetID)
	if err := e.admit(tx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// PutBuy admits a buy contract. The owner's wallet balance must cover
// the price at admission time; this is a point-in-time check only, the
// settlement engine re-validates before any payment.
func (e *Engine) PutBuy(tx storage.Tx, id, owner string, price int64) (*types.Contract, error) {
	if id == "" {
		return nil, errors.Wrap(types.ErrValidation, "contract id must not be empty")
	}
	if price < 0 {
		return nil, errors.Wrap(types.ErrValidation, "contract price must not be negative")
	}
	wkvs, err := tx.Query(storage.Selector{
		Doctype: types.DoctypeWallet,
		Owner:   owner,
	})
	if err != nil {
		return nil, err
	}
	if len(wkvs) == 0 {
		return nil, errors.Wrapf(types.ErrNotFound, "no wallet for owner %s", owner)
	}
	w := &types.Wallet{}
	if err := storage.GetDoc(tx, wkvs[0].Key, w); err != nil {
		return nil, err
	}
	if w.Balance < price {
		return nil, errors.Wrapf(types.ErrInsufficientFunds, "wallet %s holds %d, contract price is %d", owner, w.Balance, price)
	}
	c := types.NewBuyContract(id, owner, price)
	if err := e.admit(tx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// admit persists the contract and hands it to the matching engine, once.
func (e *Engine) admit(tx storage.Tx, c *types.Contract) error {
	exists, err := storage.Exists(tx, c.ID)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(types.ErrConflict, "contract %s", c.ID)
	}
	if err := storage.PutDoc(tx, c.ID, c); err != nil {
		return err
	}
	e.log.Debug("contract admitted",
		logging.String("id", c.ID),
		logging.String("owner", c.Owner),
		logging.String("side", c.Side),
		logging.Int64("price", c.Price),
	)
	_, err = e.matcher.Match(tx, c)
	return err
}

// ByOwner returns the owner's non-asset documents, the same wire-level
// result the original contract query produced (the owner's wallet
// document matches alongside the contracts, as its key is the owner
// name).
func (e *Engine) ByOwner(tx storage.Tx, owner string) ([]storage.KV, error) {
	return tx.Query(storage.Selector{
		NotDoctype: types.DoctypeAsset,
		Owner:      owner,
	})
}
