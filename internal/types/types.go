package types

// Document type discriminators. Every persisted document carries one so
// selector queries over the shared keyspace can tell entities apart.
const (
	DoctypeWallet   = "wallet"
	DoctypeAsset    = "asset"
	DoctypeContract = "contract"
)

// Contract sides.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// AssetStateInitialised is the lifecycle tag given to a freshly
// registered asset. The tag is free text afterwards.
const AssetStateInitialised = "initialised"

// Wallet holds the balance for one owner. The owner name doubles as the
// store key and is always lower-cased.
type Wallet struct {
	Doctype string `json:"doctype"`
	Owner   string `json:"owner"`
	Balance int64  `json:"balance"`
}

// Asset is a registered item keyed by its id. Ownership changes either
// through an administrative transfer or through settlement.
type Asset struct {
	Doctype   string `json:"doctype"`
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Price     int64  `json:"price"`
	State     string `json:"state"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// Contract is a standing buy or sell order for a fixed price and a
// quantity of one. A sell contract references the asset it offers.
// Once fulfilled a contract is terminal: the only write it ever receives
// is the fulfilled/matchedWith latch itself.
type Contract struct {
	Doctype     string `json:"doctype"`
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Side        string `json:"side"`
	Price       int64  `json:"price"`
	AssetID     string `json:"assetId,omitempty"`
	Fulfilled   bool   `json:"fulfilled"`
	MatchedWith string `json:"matchedWith"`
}

// CounterSide returns the opposite side of the given contract side.
func CounterSide(side string) string {
	if side == SideBuy {
		return SideSell
	}
	return SideBuy
}

// NewWallet returns a wallet document for the given owner.
func NewWallet(owner string, balance int64) *Wallet {
	return &Wallet{
		Doctype: DoctypeWallet,
		Owner:   owner,
		Balance: balance,
	}
}

// NewAsset returns an asset document in its initialised state. The
// timestamp comes from the transaction context, never from the wall
// clock.
func NewAsset(id, owner string, price, ts int64) *Asset {
	return &Asset{
		Doctype:   DoctypeAsset,
		ID:        id,
		Owner:     owner,
		Price:     price,
		State:     AssetStateInitialised,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// NewBuyContract returns an open buy contract document.
func NewBuyContract(id, owner string, price int64) *Contract {
	return &Contract{
		Doctype: DoctypeContract,
		ID:      id,
		Owner:   owner,
		Side:    SideBuy,
		Price:   price,
	}
}

// NewSellContract returns an open sell contract document referencing
// the asset it offers.
func NewSellContract(id, owner string, price int64, assetID string) *Contract {
	return &Contract{
		Doctype: DoctypeContract,
		ID:      id,
		Owner:   owner,
		Side:    SideSell,
		Price:   price,
		AssetID: assetID,
	}
}
