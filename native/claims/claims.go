package claims

import (
	"fmt"

	"palletchain/core/events"
	"palletchain/core/state"
	"palletchain/core/types"
	"palletchain/storage"

	coreerrors "palletchain/core/errors"
)

const (
	// ModuleName is the storage prefix and error provenance of the module.
	ModuleName = "claims"
	// DefaultMaxContentLength bounds the size of claimed content.
	DefaultMaxContentLength = 512
)

var (
	// ErrAlreadyClaimed is returned when the content already has an owner,
	// including when that owner is the caller.
	ErrAlreadyClaimed = coreerrors.NewModuleError(ModuleName, "AlreadyClaimed", "content already claimed")
	// ErrClaimNotFound is returned when revoking content nobody owns.
	ErrClaimNotFound = coreerrors.NewModuleError(ModuleName, "ClaimNotFound", "claim does not exist")
	// ErrNotClaimOwner is returned when revoking content owned by another account.
	ErrNotClaimOwner = coreerrors.NewModuleError(ModuleName, "NotClaimOwner", "claim owned by another account")
	// ErrContentTooLarge is returned when content exceeds the configured limit.
	ErrContentTooLarge = coreerrors.NewModuleError(ModuleName, "ContentTooLarge", "content too large")
	// ErrUnknownCall is returned for call variants the module does not handle.
	ErrUnknownCall = coreerrors.NewModuleError(ModuleName, "UnknownCall", "unknown call")
)

// Pallet is a proof-of-existence registry: each piece of content has at most
// one owner, who alone may release it.
type Pallet struct {
	claims     *state.Map[[]byte, types.AccountID]
	maxContent int
	emitter    events.Emitter
}

// New binds the pallet to its table. maxContent <= 0 selects
// DefaultMaxContentLength; a nil emitter discards events.
func New(table *storage.Table, maxContent int, emitter events.Emitter) *Pallet {
	if maxContent <= 0 {
		maxContent = DefaultMaxContentLength
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	return &Pallet{
		claims:     state.NewMap[[]byte, types.AccountID]("Claims", table.Table("Claims")),
		maxContent: maxContent,
		emitter:    emitter,
	}
}

// MaxContentLength returns the largest accepted content size in bytes.
func (p *Pallet) MaxContentLength() int { return p.maxContent }

// Owner returns the account owning content, if any.
func (p *Pallet) Owner(content []byte) (types.AccountID, bool, error) {
	return p.claims.Get(content)
}

// CreateClaim records caller as the owner of content.
func (p *Pallet) CreateClaim(caller types.AccountID, content []byte) error {
	if len(content) > p.maxContent {
		return ErrContentTooLarge
	}
	claimed, err := p.claims.Contains(content)
	if err != nil {
		return err
	}
	if claimed {
		return ErrAlreadyClaimed
	}
	if err := p.claims.Insert(content, caller); err != nil {
		return fmt.Errorf("claims: store claim: %w", err)
	}
	p.emitter.Emit(NewClaimCreatedEvent(caller, content))
	return nil
}

// RevokeClaim removes the claim on content. Only the owner may revoke it.
func (p *Pallet) RevokeClaim(caller types.AccountID, content []byte) error {
	owner, ok, err := p.claims.Get(content)
	if err != nil {
		return err
	}
	if !ok {
		return ErrClaimNotFound
	}
	if owner != caller {
		return ErrNotClaimOwner
	}
	if _, _, err := p.claims.Remove(content); err != nil {
		return fmt.Errorf("claims: remove claim: %w", err)
	}
	p.emitter.Emit(NewClaimRevokedEvent(caller, content))
	return nil
}
