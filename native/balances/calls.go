package balances

import (
	"github.com/holiman/uint256"

	"palletchain/core/types"
)

// Call is one of the operations the module exposes to extrinsics. The set is
// closed: only types declared in this package satisfy it.
type Call interface {
	CallName() string
	isBalancesCall()
}

// Transfer moves Amount from the caller to To.
type Transfer struct {
	To     types.AccountID
	Amount *uint256.Int
}

func (Transfer) CallName() string { return "transfer" }
func (Transfer) isBalancesCall()  {}

// NameOf returns the operation name of call. ok is false for a nil call or
// a nil pointer variant, neither of which can be dispatched.
func NameOf(call Call) (name string, ok bool) {
	switch c := call.(type) {
	case Transfer:
		return c.CallName(), true
	case *Transfer:
		if c == nil {
			return "", false
		}
		return c.CallName(), true
	default:
		return "", false
	}
}

// Dispatch routes call to its handler. Value and pointer variants are
// equivalent.
func (p *Pallet) Dispatch(caller types.AccountID, call Call) error {
	switch c := call.(type) {
	case Transfer:
		return p.Transfer(caller, c.To, c.Amount)
	case *Transfer:
		if c == nil {
			return ErrUnknownCall
		}
		return p.Transfer(caller, c.To, c.Amount)
	default:
		return ErrUnknownCall
	}
}
