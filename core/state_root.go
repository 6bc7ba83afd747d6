package core

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// StateRoot digests every committed key/value pair of every module in
// ascending key order. Runtimes that executed the same genesis and blocks
// report the same root regardless of storage backend.
func (r *Runtime) StateRoot() ([32]byte, error) {
	var root [32]byte
	hasher := blake3.New(32, nil)
	var lenBuf [binary.MaxVarintLen64]byte
	err := r.journal.Iterate(nil, func(key, value []byte) error {
		n := binary.PutUvarint(lenBuf[:], uint64(len(key)))
		hasher.Write(lenBuf[:n])
		hasher.Write(key)
		n = binary.PutUvarint(lenBuf[:], uint64(len(value)))
		hasher.Write(lenBuf[:n])
		hasher.Write(value)
		return nil
	})
	if err != nil {
		return root, err
	}
	copy(root[:], hasher.Sum(nil))
	return root, nil
}
