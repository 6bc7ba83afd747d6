package types

// Header carries the metadata of a block. Only the height is tracked; there
// is no parent hash or consensus digest in a single-node runtime.
type Header struct {
	Number uint64 `json:"number"`
}
