package execution

import (
	"time"

	"github.com/pkg/errors"
)

// Op identifies one named entry point of the exchange. The set is
// closed: dispatch goes through a static table, not a runtime lookup of
// handler names.
type Op byte

const (
	// CreateWalletOp ...
	CreateWalletOp Op = 0x01
	// CreateAssetOp ...
	CreateAssetOp Op = 0x02
	// ReadItemOp ...
	ReadItemOp Op = 0x03
	// TransferAssetOp ...
	TransferAssetOp Op = 0x04
	// UpdateAssetStateOp ...
	UpdateAssetStateOp Op = 0x05
	// QueryAssetsByOwnerOp ...
	QueryAssetsByOwnerOp Op = 0x06
	// QueryAllOp ...
	QueryAllOp Op = 0x07
	// InitContractOp ...
	InitContractOp Op = 0x08
	// PutBuyOp ...
	PutBuyOp Op = 0x09
	// PutSellOp ...
	PutSellOp Op = 0x0A
	// GetContractsByOwnerOp ...
	GetContractsByOwnerOp Op = 0x0B
)

var opName = map[Op]string{
	CreateWalletOp:        "createWallet",
	CreateAssetOp:         "createAsset",
	ReadItemOp:            "readItem",
	TransferAssetOp:       "transferAsset",
	UpdateAssetStateOp:    "updateAssetState",
	QueryAssetsByOwnerOp:  "queryAssetsByOwner",
	QueryAllOp:            "queryAll",
	InitContractOp:        "initContract",
	PutBuyOp:              "putBuy",
	PutSellOp:             "putSell",
	GetContractsByOwnerOp: "getContractsByOwner",
}

func (op Op) String() string {
	return opName[op]
}

// ParseOp resolves an entry point name as supplied on the wire or the
// command line.
func ParseOp(name string) (Op, error) {
	for op, n := range opName {
		if n == name {
			return op, nil
		}
	}
	return 0, errors.Errorf("unknown operation: %s", name)
}

// Request is one client operation: an entry point, its positional
// string arguments and the transaction timestamp assigned by the
// dispatch layer. The core never reads the wall clock itself, so a
// replayed request produces the identical write-set.
type Request struct {
	Op   Op
	Args []string
	Time time.Time
}
