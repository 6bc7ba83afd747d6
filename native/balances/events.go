package balances

import (
	"github.com/holiman/uint256"

	"palletchain/core/types"
)

const (
	// EventTypeTransfer is emitted when value moves between accounts.
	EventTypeTransfer = "balances.transfer"
)

// NewTransferEvent returns the canonical event payload for a transfer.
func NewTransferEvent(from, to types.AccountID, amount *uint256.Int) *types.Event {
	attrs := map[string]string{
		"from":   from.String(),
		"to":     to.String(),
		"amount": "0",
	}
	if amount != nil {
		attrs["amount"] = amount.Dec()
	}
	return &types.Event{Type: EventTypeTransfer, Attributes: attrs}
}
