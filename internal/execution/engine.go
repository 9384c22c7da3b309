package execution

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"code.assetex.io/assetex/internal/assets"
	"code.assetex.io/assetex/internal/contracts"
	"code.assetex.io/assetex/internal/logging"
	"code.assetex.io/assetex/internal/metrics"
	"code.assetex.io/assetex/internal/storage"
	"code.assetex.io/assetex/internal/types"
	"code.assetex.io/assetex/internal/wallets"

	"github.com/pkg/errors"
)

// QueryResult is one entry of a rich-query payload, the wire shape the
// original store queries produced.
type QueryResult struct {
	Key    string          `json:"Key"`
	Record json.RawMessage `json:"Record"`
}

// Engine is the operation surface of the exchange. Every request runs
// as one logical transaction against the ledger store: reads observe a
// single snapshot and the buffered write-set commits atomically, or the
// typed error is the transaction's only observable result.
type Engine struct {
	log *logging.Logger
	Config
	store   storage.Store
	wallets *wallets.Engine
	assets  *assets.Engine
	book    *contracts.Engine
}

func New(log *logging.Logger, conf Config, store storage.Store, w *wallets.Engine, a *assets.Engine, book *contracts.Engine) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())

	return &Engine{
		log:     log,
		Config:  conf,
		store:   store,
		wallets: w,
		assets:  a,
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

type handler struct {
	// write decides whether the operation runs in an update or a
	// read-only transaction.
	write bool
	// argc is the exact positional argument count, -1 for variable.
	argc int
	fn   func(e *Engine, tx storage.Tx, req Request) (interface{}, error)
}

// dispatch is the closed operation table. Adding an entry point means
// adding an Op constant and a row here, there is no dynamic handler
// resolution.
var dispatch = map[Op]handler{
	CreateWalletOp:        {write: true, argc: 2, fn: (*Engine).createWallet},
	CreateAssetOp:         {write: true, argc: 3, fn: (*Engine).createAsset},
	ReadItemOp:            {write: false, argc: 1, fn: (*Engine).readItem},
	TransferAssetOp:       {write: true, argc: 2, fn: (*Engine).transferAsset},
	UpdateAssetStateOp:    {write: true, argc: 2, fn: (*Engine).updateAssetState},
	QueryAssetsByOwnerOp:  {write: false, argc: 1, fn: (*Engine).queryAssetsByOwner},
	QueryAllOp:            {write: false, argc: 1, fn: (*Engine).queryAll},
	InitContractOp:        {write: true, argc: -1, fn: (*Engine).initContract},
	PutBuyOp:              {write: true, argc: 3, fn: (*Engine).putBuy},
	PutSellOp:             {write: true, argc: 4, fn: (*Engine).putSell},
	GetContractsByOwnerOp: {write: false, argc: 1, fn: (*Engine).getContractsByOwner},
}

// Process validates and executes one request. The returned payload is a
// document or a list of documents; on error nothing was written.
func (e *Engine) Process(req Request) (interface{}, error) {
	h, ok := dispatch[req.Op]
	if !ok {
		metrics.OpCallCounterInc("unknown", "error")
		return nil, errors.Wrapf(types.ErrValidation, "unknown operation 0x%02x", byte(req.Op))
	}
	if h.argc >= 0 && len(req.Args) != h.argc {
		metrics.OpCallCounterInc(req.Op.String(), "error")
		return nil, errors.Wrapf(types.ErrValidation, "%s expects %d arguments, got %d", req.Op, h.argc, len(req.Args))
	}

	var payload interface{}
	run := func(tx storage.Tx) error {
		var err error
		payload, err = h.fn(e, tx, req)
		return err
	}
	var err error
	if h.write {
		err = e.store.Update(run)
	} else {
		err = e.store.View(run)
	}
	if err != nil {
		e.log.Debug("operation failed",
			logging.String("op", req.Op.String()),
			logging.Error(err),
		)
		metrics.OpCallCounterInc(req.Op.String(), "error")
		return nil, err
	}
	metrics.OpCallCounterInc(req.Op.String(), "ok")
	return payload, nil
}

func (e *Engine) createWallet(tx storage.Tx, req Request) (interface{}, error) {
	owner := strings.ToLower(req.Args[0])
	balance, err := parseAmount(req.Args[1], "balance")
	if err != nil {
		return nil, err
	}
	return e.wallets.Create(tx, owner, balance)
}

func (e *Engine) createAsset(tx storage.Tx, req Request) (interface{}, error) {
	id := req.Args[0]
	owner := strings.ToLower(req.Args[1])
	price, err := parseAmount(req.Args[2], "price")
	if err != nil {
		return nil, err
	}
	return e.assets.Create(tx, id, owner, price, req.Time.UnixNano())
}

func (e *Engine) readItem(tx storage.Tx, req Request) (interface{}, error) {
	id := req.Args[0]
	if id == "" {
		return nil, errors.Wrap(types.ErrValidation, "id must not be empty")
	}
	data, err := tx.Get(id)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, errors.Wrapf(types.ErrNotFound, "item %s", id)
		}
		return nil, err
	}
	return json.RawMessage(data), nil
}

func (e *Engine) transferAsset(tx storage.Tx, req Request) (interface{}, error) {
	return e.assets.Transfer(tx, req.Args[0], strings.ToLower(req.Args[1]))
}

func (e *Engine) updateAssetState(tx storage.Tx, req Request) (interface{}, error) {
	return e.assets.UpdateState(tx, req.Args[0], req.Args[1], req.Time.UnixNano())
}

func (e *Engine) queryAssetsByOwner(tx storage.Tx, req Request) (interface{}, error) {
	owner := strings.ToLower(req.Args[0])
	held, err := e.assets.ByOwner(tx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]QueryResult, 0, len(held))
	for _, a := range held {
		data, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		out = append(out, QueryResult{Key: a.ID, Record: data})
	}
	return out, nil
}

func (e *Engine) queryAll(tx storage.Tx, req Request) (interface{}, error) {
	var sel storage.Selector
	dec := json.NewDecoder(bytes.NewReader([]byte(req.Args[0])))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sel); err != nil {
		return nil, errors.Wrapf(types.ErrValidation, "malformed selector: %v", err)
	}
	kvs, err := tx.Query(sel)
	if err != nil {
		return nil, err
	}
	return toQueryResults(kvs), nil
}

// initContract is the generic contract entry point: it verifies wallet
// membership, then routes on the side argument.
func (e *Engine) initContract(tx storage.Tx, req Request) (interface{}, error) {
	if len(req.Args) < 4 {
		return nil, errors.Wrapf(types.ErrValidation, "initContract expects at least 4 arguments, got %d", len(req.Args))
	}
	owner := strings.ToLower(req.Args[1])
	hasWallet, err := e.wallets.Has(tx, owner)
	if err != nil {
		return nil, err
	}
	if !hasWallet {
		return nil, errors.Wrapf(types.ErrNotFound, "no wallet for owner %s, initialise a wallet before any contracts", owner)
	}
	side := strings.ToLower(req.Args[2])
	switch side {
	case types.SideBuy:
		if len(req.Args) != 4 {
			return nil, errors.Wrapf(types.ErrValidation, "buy contract expects 4 arguments, got %d", len(req.Args))
		}
		return e.putBuy(tx, Request{Args: []string{req.Args[0], owner, req.Args[3]}})
	case types.SideSell:
		if len(req.Args) != 5 {
			return nil, errors.Wrapf(types.ErrValidation, "sell contract expects 5 arguments, got %d", len(req.Args))
		}
		return e.putSell(tx, Request{Args: []string{req.Args[0], owner, req.Args[3], req.Args[4]}})
	default:
		return nil, errors.Wrapf(types.ErrValidation, "invalid contract side: %s", side)
	}
}

func (e *Engine) putBuy(tx storage.Tx, req Request) (interface{}, error) {
	owner := strings.ToLower(req.Args[1])
	price, err := parseAmount(req.Args[2], "price")
	if err != nil {
		return nil, err
	}
	return e.book.PutBuy(tx, req.Args[0], owner, price)
}

func (e *Engine) putSell(tx storage.Tx, req Request) (interface{}, error) {
	owner := strings.ToLower(req.Args[1])
	price, err := parseAmount(req.Args[2], "price")
	if err != nil {
		return nil, err
	}
	return e.book.PutSell(tx, req.Args[0], owner, price, req.Args[3])
}

func (e *Engine) getContractsByOwner(tx storage.Tx, req Request) (interface{}, error) {
	kvs, err := e.book.ByOwner(tx, strings.ToLower(req.Args[0]))
	if err != nil {
		return nil, err
	}
	return toQueryResults(kvs), nil
}

func toQueryResults(kvs []storage.KV) []QueryResult {
	out := make([]QueryResult, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, QueryResult{Key: kv.Key, Record: kv.Data})
	}
	return out
}

func parseAmount(s, what string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(types.ErrValidation, "%s is not an integer: %s", what, s)
	}
	return v, nil
}
