package types

import "github.com/pkg/errors"

// Error taxonomy for the exchange core. Call sites wrap these with
// errors.Wrapf to attach the offending id; callers classify with
// errors.Is. A failed operation never leaves partial state behind, the
// enclosing store transaction is discarded wholesale.
var (
	// ErrValidation covers a wrong argument count or shape.
	ErrValidation = errors.New("invalid arguments")
	// ErrNotFound covers an absent wallet, asset or contract.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers a duplicate id within a namespace.
	ErrConflict = errors.New("id already exists")
	// ErrInsufficientFunds covers a buyer balance below the contract price,
	// at admission or at settlement.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnauthorizedOwnership covers a party acting on an asset it does
	// not currently own.
	ErrUnauthorizedOwnership = errors.New("unauthorized ownership")
)

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

func IsUnauthorizedOwnership(err error) bool {
	return errors.Is(err, ErrUnauthorizedOwnership)
}
