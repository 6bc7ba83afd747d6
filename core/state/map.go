package state

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"palletchain/storage"
)

// Store is the subset of storage functionality a storage item needs. It is
// satisfied by *storage.Table.
type Store interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Map is a typed key→value storage item. Keys and values are RLP encoded so
// any RLP-serialisable type can be stored. A Map owns its key space; two maps
// built on different stores can never observe each other's entries.
type Map[K any, V any] struct {
	name  string
	store Store
}

// NewMap binds a map to store. The name only appears in error messages.
func NewMap[K any, V any](name string, store Store) *Map[K, V] {
	return &Map[K, V]{name: name, store: store}
}

func (m *Map[K, V]) encodeKey(key K) ([]byte, error) {
	encoded, err := rlp.EncodeToBytes(key)
	if err != nil {
		return nil, fmt.Errorf("state: encode %s key: %w", m.name, err)
	}
	return encoded, nil
}

// Get returns the value stored under key. ok is false when the key is
// absent, in which case the zero value is returned.
func (m *Map[K, V]) Get(key K) (value V, ok bool, err error) {
	k, err := m.encodeKey(key)
	if err != nil {
		return value, false, err
	}
	return m.load(k)
}

func (m *Map[K, V]) load(k []byte) (value V, ok bool, err error) {
	raw, err := m.store.Get(k)
	if errors.Is(err, storage.ErrNotFound) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("state: read %s: %w", m.name, err)
	}
	if err := rlp.DecodeBytes(raw, &value); err != nil {
		return value, false, fmt.Errorf("state: decode %s: %w", m.name, err)
	}
	return value, true, nil
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) (bool, error) {
	k, err := m.encodeKey(key)
	if err != nil {
		return false, err
	}
	return m.store.Has(k)
}

// Insert stores value under key, overwriting any previous value.
func (m *Map[K, V]) Insert(key K, value V) error {
	k, err := m.encodeKey(key)
	if err != nil {
		return err
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return fmt.Errorf("state: encode %s value: %w", m.name, err)
	}
	return m.store.Put(k, encoded)
}

// Remove deletes key and returns the value it held, if any.
func (m *Map[K, V]) Remove(key K) (value V, ok bool, err error) {
	k, err := m.encodeKey(key)
	if err != nil {
		return value, false, err
	}
	value, ok, err = m.load(k)
	if err != nil || !ok {
		return value, ok, err
	}
	if err := m.store.Delete(k); err != nil {
		return value, false, fmt.Errorf("state: delete %s: %w", m.name, err)
	}
	return value, true, nil
}
