package claims

import (
	"encoding/hex"
	"unicode/utf8"

	"palletchain/core/types"
)

const (
	// EventTypeClaimCreated is emitted when an account claims content.
	EventTypeClaimCreated = "claims.created"
	// EventTypeClaimRevoked is emitted when an owner releases content.
	EventTypeClaimRevoked = "claims.revoked"
)

// NewClaimCreatedEvent returns the canonical event payload for a new claim.
func NewClaimCreatedEvent(owner types.AccountID, content []byte) *types.Event {
	return &types.Event{Type: EventTypeClaimCreated, Attributes: claimAttributes(owner, content)}
}

// NewClaimRevokedEvent returns the canonical event payload for a revocation.
func NewClaimRevokedEvent(owner types.AccountID, content []byte) *types.Event {
	return &types.Event{Type: EventTypeClaimRevoked, Attributes: claimAttributes(owner, content)}
}

func claimAttributes(owner types.AccountID, content []byte) map[string]string {
	attrs := map[string]string{"owner": owner.String()}
	if utf8.Valid(content) {
		attrs["content"] = string(content)
	} else {
		attrs["contentHex"] = hex.EncodeToString(content)
	}
	return attrs
}
