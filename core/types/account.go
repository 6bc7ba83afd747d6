package types

import "strings"

// AccountID identifies the caller of an extrinsic. The runtime treats it as
// an opaque token; authentication happens before a block reaches the runtime.
type AccountID string

// NewAccountID trims surrounding whitespace from raw.
func NewAccountID(raw string) AccountID {
	return AccountID(strings.TrimSpace(raw))
}

// String implements fmt.Stringer.
func (a AccountID) String() string { return string(a) }

// IsZero reports whether the identity is empty.
func (a AccountID) IsZero() bool { return a == "" }
