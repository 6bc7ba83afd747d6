package core

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"time"

	"palletchain/core/types"
	"palletchain/native/system"
)

// ExtrinsicResult is the outcome of one extrinsic. Err is nil on success and
// a *DispatchError otherwise.
type ExtrinsicResult struct {
	Index  int
	Caller types.AccountID
	Pallet string
	Call   string
	Err    error
}

// OK reports whether the extrinsic committed.
func (r ExtrinsicResult) OK() bool { return r.Err == nil }

// Receipt is the execution trace of a block.
type Receipt struct {
	Number    uint64
	Results   []ExtrinsicResult
	Events    []types.Event
	StateRoot [32]byte
}

// Outcomes returns one entry per extrinsic in input order: nil for success,
// the dispatch error otherwise.
func (r *Receipt) Outcomes() []error {
	out := make([]error, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Err
	}
	return out
}

// Failed counts extrinsics that did not commit.
func (r *Receipt) Failed() int {
	failed := 0
	for _, res := range r.Results {
		if res.Err != nil {
			failed++
		}
	}
	return failed
}

// NextBlock wraps extrinsics in a block carrying the next block number.
func (r *Runtime) NextBlock(extrinsics ...Extrinsic) (Block, error) {
	current, err := r.system.BlockNumber()
	if err != nil {
		return Block{}, err
	}
	if current == math.MaxUint64 {
		return Block{}, system.ErrBlockNumberOverflow
	}
	return Block{Header: types.Header{Number: current + 1}, Extrinsics: extrinsics}, nil
}

// ExecuteBlock runs every extrinsic of block in order. A failing extrinsic
// only loses its own effects (its nonce bump is kept); the remaining
// extrinsics still run. The returned error is reserved for block-level
// failures, in which case no extrinsic ran: a header that does not carry the
// next block number, a saturated block counter, or re-entrant execution.
//
// ErrBlockInProgress is a guard only: modules hold no reference to the
// runtime, so no exported path can nest ExecuteBlock today.
func (r *Runtime) ExecuteBlock(block Block) (*Receipt, error) {
	if r.phase != phaseIdle {
		return nil, ErrBlockInProgress
	}
	current, err := r.system.BlockNumber()
	if err != nil {
		return nil, fmt.Errorf("core: read block number: %w", err)
	}
	if current == math.MaxUint64 {
		r.metrics.RecordRejectedBlock()
		r.logger.Error("block number saturated", "number", current)
		return nil, system.ErrBlockNumberOverflow
	}
	if expected := current + 1; block.Header.Number != expected {
		r.metrics.RecordRejectedBlock()
		r.logger.Warn("block rejected", "number", block.Header.Number, "expected", expected)
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrBlockNumberMismatch, block.Header.Number, expected)
	}

	r.phase = phaseExecutingBlock
	defer func() { r.phase = phaseIdle }()
	start := time.Now()

	number, err := r.system.IncrementBlockNumber()
	if err != nil {
		return nil, fmt.Errorf("core: advance block number: %w", err)
	}

	receipt := &Receipt{
		Number:  number,
		Results: make([]ExtrinsicResult, 0, len(block.Extrinsics)),
	}
	for i, xt := range block.Extrinsics {
		pallet, name := describeCall(xt.Call)
		emitted, err := r.dispatch(xt.Caller, xt.Call)
		receipt.Results = append(receipt.Results, ExtrinsicResult{
			Index:  i,
			Caller: xt.Caller,
			Pallet: pallet,
			Call:   name,
			Err:    err,
		})
		r.metrics.ObserveExtrinsic(pallet, name, err)

		if err != nil {
			attrs := []any{"block", number, "extrinsic", i, "caller", xt.Caller.String(), "pallet", pallet, "call", name, "err", err}
			if de, ok := AsDispatchError(err); ok {
				attrs = append(attrs, "kind", de.Kind())
			}
			r.logger.Warn("extrinsic failed", attrs...)
		}
		for _, evt := range emitted {
			if typed, ok := evt.(*types.Event); ok {
				receipt.Events = append(receipt.Events, indexed(*typed, i))
			}
		}
		receipt.Events = append(receipt.Events, *outcomeEvent(i, xt.Caller, err))
	}
	for _, evt := range receipt.Events {
		r.metrics.RecordEvent(evt.Type)
	}

	root, err := r.StateRoot()
	if err != nil {
		return nil, fmt.Errorf("core: state root: %w", err)
	}
	receipt.StateRoot = root

	r.metrics.ObserveBlock(number, len(block.Extrinsics), time.Since(start))
	r.logger.Info("block executed",
		"number", number,
		"extrinsics", len(block.Extrinsics),
		"failed", receipt.Failed(),
		"stateRoot", hex.EncodeToString(root[:]),
	)
	return receipt, nil
}

// indexed tags evt with the position of the extrinsic that produced it.
func indexed(evt types.Event, index int) types.Event {
	attrs := make(map[string]string, len(evt.Attributes)+1)
	for k, v := range evt.Attributes {
		attrs[k] = v
	}
	attrs["extrinsic"] = strconv.Itoa(index)
	return types.Event{Type: evt.Type, Attributes: attrs}
}
