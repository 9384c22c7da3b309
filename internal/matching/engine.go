package matching

import (
	"encoding/json"
	"sort"

	"code.assetex.io/assetex/internal/logging"
	"code.assetex.io/assetex/internal/metrics"
	"code.assetex.io/assetex/internal/storage"
	"code.assetex.io/assetex/internal/types"

	"github.com/pkg/errors"
)

// Settler performs the coupled ownership transfer and payment for a
// matched pair. Called exactly once per match.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/settler_mock.go -package mocks code.assetex.io/assetex/internal/matching Settler
type Settler interface {
	Settle(tx storage.Tx, seller, buyer, assetID string, price int64) error
}

// Engine pairs a freshly admitted contract with at most one eligible
// counter-contract and latches both fulfilled. The whole pass is a pure
// function of the store snapshot and the contract: candidate selection
// is by lowest contract id, never by query result order, so independent
// replicas re-executing the same transaction pick the same counterpart.
type Engine struct {
	log *logging.Logger
	Config
	settler Settler
}

func New(log *logging.Logger, conf Config, settler Settler) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())

	return &Engine{
		log:     log,
		Config:  conf,
		settler: settler,
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

// Match runs one matching pass for contract c. It returns true when a
// counter-contract was found, both contracts were latched fulfilled and
// settlement ran. No match is not an error: the contract simply stays
// open. At most one match happens per invocation, there is no cascading
// re-matching.
func (e *Engine) Match(tx storage.Tx, c *types.Contract) (bool, error) {
	counter, err := e.findCounter(tx, c)
	if err != nil {
		return false, err
	}
	if counter == nil {
		return false, nil
	}

	// one-way latch on both sides, mutual closure
	counter.Fulfilled = true
	counter.MatchedWith = c.ID
	c.Fulfilled = true
	c.MatchedWith = counter.ID
	if err := storage.PutDoc(tx, counter.ID, counter); err != nil {
		return false, err
	}
	if err := storage.PutDoc(tx, c.ID, c); err != nil {
		return false, err
	}

	sell := c
	buy := counter
	if c.Side == types.SideBuy {
		sell, buy = counter, c
	}
	e.log.Info("contracts matched",
		logging.String("contract", c.ID),
		logging.String("counter", counter.ID),
		logging.String("asset", sell.AssetID),
		logging.Int64("price", sell.Price),
	)
	if err := e.settler.Settle(tx, sell.Owner, buy.Owner, sell.AssetID, sell.Price); err != nil {
		return false, err
	}
	metrics.MatchCounterInc()
	return true, nil
}

// findCounter returns the eligible counter-contract with the lowest id,
// or nil when none exists. Eligibility: opposite side, still open, a
// different owner, and a crossing price (counter-sell at or below a
// buy's price, counter-buy at or above a sell's price).
func (e *Engine) findCounter(tx storage.Tx, c *types.Contract) (*types.Contract, error) {
	sel := storage.Selector{
		Doctype:   types.DoctypeContract,
		Side:      types.CounterSide(c.Side),
		Fulfilled: storage.Bool(false),
		NotOwner:  c.Owner,
	}
	if c.Side == types.SideBuy {
		sel.PriceLTE = storage.Int64(c.Price)
	} else {
		sel.PriceGTE = storage.Int64(c.Price)
	}
	kvs, err := tx.Query(sel)
	if err != nil {
		return nil, err
	}
	if len(kvs) == 0 {
		return nil, nil
	}

	candidates := make([]*types.Contract, 0, len(kvs))
	for _, kv := range kvs {
		cand := &types.Contract{}
		if err := json.Unmarshal(kv.Data, cand); err != nil {
			return nil, errors.Wrapf(err, "malformed contract document under key %s", kv.Key)
		}
		candidates = append(candidates, cand)
	}
	// The store's result ordering is an index detail; impose our own.
	// Contract ids are unique within the namespace so this is a total
	// order and every replica selects the same counterpart.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID < candidates[j].ID
	})
	if e.LogCandidatesDebug {
		for _, cand := range candidates {
			e.log.Debug("match candidate",
				logging.String("id", cand.ID),
				logging.String("owner", cand.Owner),
				logging.Int64("price", cand.Price),
			)
		}
	}
	return candidates[0], nil
}
