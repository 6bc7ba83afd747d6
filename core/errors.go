package core

import (
	"errors"
	"fmt"

	coreerrors "palletchain/core/errors"
)

// moduleName is the provenance of errors raised by the runtime itself.
const moduleName = "runtime"

var (
	// ErrUnknownCall is returned for a nil call or a variant with no payload,
	// nil pointers included.
	ErrUnknownCall = coreerrors.NewModuleError(moduleName, "UnknownCall", "unknown call")

	// ErrBlockInProgress is returned when a block is submitted while another
	// one is executing. Nothing exported can trigger it today; it guards
	// against future re-entrant callers.
	ErrBlockInProgress = errors.New("core: block execution already in progress")
	// ErrBlockNumberMismatch is returned when a block header does not carry
	// the next block number.
	ErrBlockNumberMismatch = errors.New("core: block number does not match expected")
	// ErrGenesisAfterBlocks is returned when genesis is applied to a runtime
	// that already executed blocks.
	ErrGenesisAfterBlocks = errors.New("core: genesis must be applied before the first block")
)

// DispatchError is the outcome of a failed dispatch. Pallet and Call name the
// attempted operation; the wrapped error keeps the module error that caused
// the failure so observers can recover e.g. "balances: InsufficientBalance".
type DispatchError struct {
	Pallet string
	Call   string
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s.%s: %v", e.Pallet, e.Call, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Module returns the module that raised the error. It differs from Pallet
// when bookkeeping fails before the call is routed, e.g. a saturated nonce.
func (e *DispatchError) Module() string {
	if module, _, ok := coreerrors.KindOf(e.Err); ok {
		return module
	}
	return e.Pallet
}

// Kind returns the module error kind, or "Storage" for failures that carry
// no module error.
func (e *DispatchError) Kind() string {
	if _, kind, ok := coreerrors.KindOf(e.Err); ok {
		return kind
	}
	return "Storage"
}

// AsDispatchError unwraps err into a DispatchError.
func AsDispatchError(err error) (*DispatchError, bool) {
	var de *DispatchError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
