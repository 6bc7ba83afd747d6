package system

import (
	"fmt"
	"math"

	"palletchain/core/state"
	"palletchain/core/types"
	"palletchain/storage"

	coreerrors "palletchain/core/errors"
)

// ModuleName is the storage prefix and error provenance of the module.
const ModuleName = "system"

var (
	// ErrBlockNumberOverflow marks an attempt to advance past the largest
	// representable block number. The counter stays saturated.
	ErrBlockNumberOverflow = coreerrors.NewModuleError(ModuleName, "BlockNumberOverflow", "block number overflow")
	// ErrNonceOverflow marks an account whose nonce is already saturated.
	ErrNonceOverflow = coreerrors.NewModuleError(ModuleName, "NonceOverflow", "nonce overflow")
)

// Pallet tracks the chain height and how many calls each account has made.
// Every other module relies on it for sequencing, but only the runtime
// mutates it.
type Pallet struct {
	blockNumber *state.Value[uint64]
	nonces      *state.Map[types.AccountID, uint64]
}

// New binds the pallet to its table.
func New(table *storage.Table) *Pallet {
	return &Pallet{
		blockNumber: state.NewValue[uint64]("BlockNumber", table.Table("BlockNumber")),
		nonces:      state.NewMap[types.AccountID, uint64]("Nonces", table.Table("Nonces")),
	}
}

// BlockNumber returns the current block number, 0 before the first block.
func (p *Pallet) BlockNumber() (uint64, error) {
	number, _, err := p.blockNumber.Get()
	return number, err
}

// IncrementBlockNumber advances the block number by one and returns the new
// value. At math.MaxUint64 the counter saturates and ErrBlockNumberOverflow
// is returned.
func (p *Pallet) IncrementBlockNumber() (uint64, error) {
	current, err := p.BlockNumber()
	if err != nil {
		return 0, err
	}
	if current == math.MaxUint64 {
		return current, ErrBlockNumberOverflow
	}
	next := current + 1
	if err := p.blockNumber.Put(next); err != nil {
		return current, fmt.Errorf("system: store block number: %w", err)
	}
	return next, nil
}

// Nonce returns how many dispatches were attempted for account.
func (p *Pallet) Nonce(account types.AccountID) (uint64, error) {
	nonce, _, err := p.nonces.Get(account)
	return nonce, err
}

// IncrementNonce records one more dispatch attempt for account and returns
// the new nonce.
func (p *Pallet) IncrementNonce(account types.AccountID) (uint64, error) {
	current, err := p.Nonce(account)
	if err != nil {
		return 0, err
	}
	if current == math.MaxUint64 {
		return current, ErrNonceOverflow
	}
	next := current + 1
	if err := p.nonces.Insert(account, next); err != nil {
		return current, fmt.Errorf("system: store nonce: %w", err)
	}
	return next, nil
}
