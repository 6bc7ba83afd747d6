package claims

import "palletchain/core/types"

// Call is one of the operations the module exposes to extrinsics.
type Call interface {
	CallName() string
	isClaimsCall()
}

// CreateClaim claims Content for the caller.
type CreateClaim struct {
	Content []byte
}

// RevokeClaim releases the caller's claim on Content.
type RevokeClaim struct {
	Content []byte
}

func (CreateClaim) CallName() string { return "create_claim" }
func (CreateClaim) isClaimsCall()    {}

func (RevokeClaim) CallName() string { return "revoke_claim" }
func (RevokeClaim) isClaimsCall()    {}

// NameOf returns the operation name of call. ok is false for a nil call or
// a nil pointer variant, neither of which can be dispatched.
func NameOf(call Call) (name string, ok bool) {
	switch c := call.(type) {
	case CreateClaim:
		return c.CallName(), true
	case *CreateClaim:
		if c == nil {
			return "", false
		}
		return c.CallName(), true
	case RevokeClaim:
		return c.CallName(), true
	case *RevokeClaim:
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
	case CreateClaim:
		return p.CreateClaim(caller, c.Content)
	case *CreateClaim:
		if c == nil {
			return ErrUnknownCall
		}
		return p.CreateClaim(caller, c.Content)
	case RevokeClaim:
		return p.RevokeClaim(caller, c.Content)
	case *RevokeClaim:
		if c == nil {
			return ErrUnknownCall
		}
		return p.RevokeClaim(caller, c.Content)
	default:
		return ErrUnknownCall
	}
}
