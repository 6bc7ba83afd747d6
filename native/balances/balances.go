package balances

import (
	"fmt"

	"github.com/holiman/uint256"

	"palletchain/core/events"
	"palletchain/core/state"
	"palletchain/core/types"
	"palletchain/storage"

	coreerrors "palletchain/core/errors"
)

// ModuleName is the storage prefix and error provenance of the module.
const ModuleName = "balances"

var (
	// ErrInsufficientBalance is returned when the caller cannot cover a transfer.
	ErrInsufficientBalance = coreerrors.NewModuleError(ModuleName, "InsufficientBalance", "insufficient balance")
	// ErrOverflow is returned when crediting an account would exceed 2^256-1.
	ErrOverflow = coreerrors.NewModuleError(ModuleName, "Overflow", "balance overflow")
	// ErrUnknownCall is returned for call variants the module does not handle.
	ErrUnknownCall = coreerrors.NewModuleError(ModuleName, "UnknownCall", "unknown call")
)

// Pallet keeps the free balance of every account. Accounts that were never
// credited read as zero.
type Pallet struct {
	balances      *state.Map[types.AccountID, *uint256.Int]
	totalIssuance *state.Value[*uint256.Int]
	emitter       events.Emitter
}

// New binds the pallet to its table. Events are sent to emitter; a nil
// emitter discards them.
func New(table *storage.Table, emitter events.Emitter) *Pallet {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Pallet{
		balances:      state.NewMap[types.AccountID, *uint256.Int]("Balances", table.Table("Balances")),
		totalIssuance: state.NewValue[*uint256.Int]("TotalIssuance", table.Table("TotalIssuance")),
		emitter:       emitter,
	}
}

// Balance returns the balance of who.
func (p *Pallet) Balance(who types.AccountID) (*uint256.Int, error) {
	balance, ok, err := p.balances.Get(who)
	if err != nil {
		return nil, err
	}
	if !ok || balance == nil {
		return new(uint256.Int), nil
	}
	return balance, nil
}

// TotalIssuance returns the sum of all balances.
func (p *Pallet) TotalIssuance() (*uint256.Int, error) {
	total, ok, err := p.totalIssuance.Get()
	if err != nil {
		return nil, err
	}
	if !ok || total == nil {
		return new(uint256.Int), nil
	}
	return total, nil
}

// SetBalance overwrites the balance of who and adjusts the total issuance.
// It bypasses dispatch and is reserved for genesis.
func (p *Pallet) SetBalance(who types.AccountID, amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}
	previous, err := p.Balance(who)
	if err != nil {
		return err
	}
	total, err := p.TotalIssuance()
	if err != nil {
		return err
	}
	total = new(uint256.Int).Sub(total, previous)
	total, overflow := new(uint256.Int).AddOverflow(total, amount)
	if overflow {
		return ErrOverflow
	}
	if err := p.balances.Insert(who, amount.Clone()); err != nil {
		return fmt.Errorf("balances: store balance: %w", err)
	}
	if err := p.totalIssuance.Put(total); err != nil {
		return fmt.Errorf("balances: store issuance: %w", err)
	}
	return nil
}

// Transfer moves amount from caller to to. Both new balances are computed
// before anything is written, so a failed transfer leaves state untouched.
// A transfer to oneself succeeds and leaves the balance unchanged.
func (p *Pallet) Transfer(caller, to types.AccountID, amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}
	fromBalance, err := p.Balance(caller)
	if err != nil {
		return err
	}
	newFrom, underflow := new(uint256.Int).SubOverflow(fromBalance, amount)
	if underflow {
		return ErrInsufficientBalance
	}
	toBalance := newFrom
	if to != caller {
		if toBalance, err = p.Balance(to); err != nil {
			return err
		}
	}
	newTo, overflow := new(uint256.Int).AddOverflow(toBalance, amount)
	if overflow {
		return ErrOverflow
	}

	if err := p.balances.Insert(caller, newFrom); err != nil {
		return fmt.Errorf("balances: debit %s: %w", caller, err)
	}
	if err := p.balances.Insert(to, newTo); err != nil {
		return fmt.Errorf("balances: credit %s: %w", to, err)
	}
	p.emitter.Emit(NewTransferEvent(caller, to, amount))
	return nil
}
