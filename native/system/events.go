package system

import (
	"strconv"

	"palletchain/core/types"
)

const (
	// EventTypeExtrinsicSuccess is emitted after a dispatched call commits.
	EventTypeExtrinsicSuccess = "system.extrinsicSuccess"
	// EventTypeExtrinsicFailed is emitted after a dispatched call is rolled back.
	EventTypeExtrinsicFailed = "system.extrinsicFailed"
)

// NewExtrinsicSuccessEvent describes a committed extrinsic.
func NewExtrinsicSuccessEvent(index int, caller types.AccountID) *types.Event {
	return &types.Event{Type: EventTypeExtrinsicSuccess, Attributes: map[string]string{
		"extrinsic": strconv.Itoa(index),
		"caller":    caller.String(),
	}}
}

// NewExtrinsicFailedEvent describes a failed extrinsic and the module error
// that caused it.
func NewExtrinsicFailedEvent(index int, caller types.AccountID, module, kind string) *types.Event {
	return &types.Event{Type: EventTypeExtrinsicFailed, Attributes: map[string]string{
		"extrinsic": strconv.Itoa(index),
		"caller":    caller.String(),
		"module":    module,
		"kind":      kind,
	}}
}
