package core

import (
	"fmt"

	"palletchain/core/events"
	"palletchain/core/types"
	"palletchain/native/balances"
	"palletchain/native/claims"
	"palletchain/native/system"
)

// Dispatch routes call on behalf of caller. The caller's nonce is bumped
// first and stays bumped whatever the outcome. The call itself is atomic: on
// failure every storage write and event it produced is discarded and a
// *DispatchError is returned.
func (r *Runtime) Dispatch(caller types.AccountID, call Call) error {
	emitted, err := r.dispatch(caller, call)
	pallet, name := describeCall(call)
	r.metrics.ObserveExtrinsic(pallet, name, err)
	for _, evt := range emitted {
		r.metrics.RecordEvent(evt.EventType())
	}
	return err
}

func (r *Runtime) dispatch(caller types.AccountID, call Call) ([]events.Event, error) {
	pallet, name := describeCall(call)
	if _, err := r.system.IncrementNonce(caller); err != nil {
		return nil, &DispatchError{Pallet: pallet, Call: name, Err: err}
	}
	if err := r.journal.Begin(); err != nil {
		return nil, &DispatchError{Pallet: pallet, Call: name, Err: err}
	}
	r.pending.Reset()

	if err := r.route(caller, call); err != nil {
		r.journal.Rollback()
		r.pending.Reset()
		return nil, &DispatchError{Pallet: pallet, Call: name, Err: err}
	}
	if err := r.journal.Commit(); err != nil {
		r.pending.Reset()
		return nil, &DispatchError{Pallet: pallet, Call: name, Err: fmt.Errorf("core: commit: %w", err)}
	}
	return r.pending.Drain(), nil
}

// route is the single place that knows which module owns which call.
func (r *Runtime) route(caller types.AccountID, call Call) error {
	switch c := unwrapCall(call).(type) {
	case BalancesCall:
		if _, ok := balances.NameOf(c.Call); !ok {
			return ErrUnknownCall
		}
		return r.balances.Dispatch(caller, c.Call)
	case ClaimsCall:
		if _, ok := claims.NameOf(c.Call); !ok {
			return ErrUnknownCall
		}
		return r.claims.Dispatch(caller, c.Call)
	default:
		return ErrUnknownCall
	}
}

// outcomeEvent builds the system event recorded for extrinsic index.
func outcomeEvent(index int, caller types.AccountID, err error) *types.Event {
	if err == nil {
		return system.NewExtrinsicSuccessEvent(index, caller)
	}
	module, kind := moduleName, "Other"
	if de, ok := AsDispatchError(err); ok {
		module, kind = de.Module(), de.Kind()
	}
	return system.NewExtrinsicFailedEvent(index, caller, module, kind)
}
