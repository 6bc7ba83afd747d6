package state

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"palletchain/storage"
)

// valueKey is the single key a Value occupies within its store.
var valueKey = []byte{0x00}

// Value is a typed single-slot storage item.
type Value[V any] struct {
	name  string
	store Store
}

// NewValue binds a value to store.
func NewValue[V any](name string, store Store) *Value[V] {
	return &Value[V]{name: name, store: store}
}

// Get returns the stored value; ok is false when nothing was ever stored.
func (v *Value[V]) Get() (value V, ok bool, err error) {
	raw, err := v.store.Get(valueKey)
	if errors.Is(err, storage.ErrNotFound) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("state: read %s: %w", v.name, err)
	}
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return value, false, fmt.Errorf("state: decode %s: %w", v.name, err)
	}
	return value, true, nil
}

// Put overwrites the stored value.
func (v *Value[V]) Put(value V) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %s: %w", v.name, err)
	}
	return v.store.Put(valueKey, encoded)
}

// Kill removes the stored value.
func (v *Value[V]) Kill() error {
	return v.store.Delete(valueKey)
}
