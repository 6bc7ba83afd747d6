package core

import (
	"github.com/holiman/uint256"

	"palletchain/core/types"
	"palletchain/native/balances"
	"palletchain/native/claims"
)

// Call is the closed set of operations the runtime can dispatch: one variant
// per module, each wrapping that module's own call type. Adding a module
// means adding a variant here and one case to Runtime.route.
type Call interface {
	// Pallet names the module that owns the call.
	Pallet() string
	// Name names the operation within the module.
	Name() string
	isRuntimeCall()
}

const unknownCallName = "unknown"

// BalancesCall routes a balances.Call.
type BalancesCall struct {
	balances.Call
}

func (BalancesCall) Pallet() string { return balances.ModuleName }

func (c BalancesCall) Name() string {
	if name, ok := balances.NameOf(c.Call); ok {
		return name
	}
	return unknownCallName
}

func (BalancesCall) isRuntimeCall() {}

// ClaimsCall routes a claims.Call.
type ClaimsCall struct {
	claims.Call
}

func (ClaimsCall) Pallet() string { return claims.ModuleName }

func (c ClaimsCall) Name() string {
	if name, ok := claims.NameOf(c.Call); ok {
		return name
	}
	return unknownCallName
}

func (ClaimsCall) isRuntimeCall() {}

// Transfer builds a balances transfer call.
func Transfer(to types.AccountID, amount *uint256.Int) Call {
	return BalancesCall{Call: balances.Transfer{To: to, Amount: amount}}
}

// CreateClaim builds a claims create_claim call.
func CreateClaim(content []byte) Call {
	return ClaimsCall{Call: claims.CreateClaim{Content: content}}
}

// RevokeClaim builds a claims revoke_claim call.
func RevokeClaim(content []byte) Call {
	return ClaimsCall{Call: claims.RevokeClaim{Content: content}}
}

// unwrapCall dereferences pointer variants so routing only deals with
// values. A nil pointer variant becomes a nil Call.
func unwrapCall(call Call) Call {
	switch c := call.(type) {
	case *BalancesCall:
		if c == nil {
			return nil
		}
		return *c
	case *ClaimsCall:
		if c == nil {
			return nil
		}
		return *c
	default:
		return call
	}
}

// describeCall returns the module and operation names of call. It never
// panics, whatever nil the call carries.
func describeCall(call Call) (pallet, name string) {
	call = unwrapCall(call)
	if call == nil {
		return moduleName, unknownCallName
	}
	return call.Pallet(), call.Name()
}

// Extrinsic is an instruction submitted from outside the runtime: the
// authenticated caller plus the call it wants to make.
type Extrinsic struct {
	Caller types.AccountID
	Call   Call
}

// NewExtrinsic pairs caller with call.
func NewExtrinsic(caller types.AccountID, call Call) Extrinsic {
	return Extrinsic{Caller: caller, Call: call}
}

// Block is an ordered list of extrinsics. Execution order is the slice order.
type Block struct {
	Header     types.Header
	Extrinsics []Extrinsic
}
