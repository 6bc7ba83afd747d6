// Package scenario decodes YAML descriptions of a genesis and a sequence of
// blocks into runtime inputs.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/holiman/uint256"
	"gopkg.in/yaml.v3"

	"palletchain/core"
	"palletchain/core/types"
)

// Call identifiers accepted in scenario files.
const (
	CallTransfer    = "balances.transfer"
	CallCreateClaim = "claims.create_claim"
	CallRevokeClaim = "claims.revoke_claim"
)

var (
	// ErrUnknownCall is returned for an entry naming a call the runtime lacks.
	ErrUnknownCall = errors.New("scenario: unknown call")
	// ErrMissingField is returned when an entry omits a field its call needs.
	ErrMissingField = errors.New("scenario: missing field")
	// ErrDuplicateAccount is returned when two genesis keys name the same
	// account once surrounding whitespace is trimmed.
	ErrDuplicateAccount = errors.New("scenario: duplicate genesis account")
)

// File is the on-disk layout.
type File struct {
	Name    string            `yaml:"name"`
	Genesis map[string]string `yaml:"genesis"`
	Blocks  []BlockSpec       `yaml:"blocks"`
}

// BlockSpec lists the extrinsics of one block in execution order.
type BlockSpec struct {
	Extrinsics []ExtrinsicSpec `yaml:"extrinsics"`
}

// ExtrinsicSpec is one call. Amount is decimal or 0x-prefixed hex so that
// balances beyond 64 bits can be expressed.
type ExtrinsicSpec struct {
	Caller  string `yaml:"caller"`
	Call    string `yaml:"call"`
	To      string `yaml:"to,omitempty"`
	Amount  string `yaml:"amount,omitempty"`
	Content string `yaml:"content,omitempty"`
}

// Scenario is a decoded file ready to be fed to a runtime.
type Scenario struct {
	Name    string
	Genesis core.Genesis
	Blocks  [][]core.Extrinsic
}

// Load reads and decodes the scenario at path.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// Parse decodes a scenario held in memory.
func Parse(data []byte) (*Scenario, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads one YAML document from r. Unknown fields are rejected.
func Decode(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &Scenario{Genesis: core.Genesis{Balances: map[types.AccountID]*uint256.Int{}}}, nil
		}
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	return file.Build()
}

// Build converts the raw file into runtime inputs.
func (f File) Build() (*Scenario, error) {
	out := &Scenario{
		Name:    f.Name,
		Genesis: core.Genesis{Balances: make(map[types.AccountID]*uint256.Int, len(f.Genesis))},
		Blocks:  make([][]core.Extrinsic, 0, len(f.Blocks)),
	}
	keys := make([]string, 0, len(f.Genesis))
	for key := range f.Genesis {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		account := types.NewAccountID(key)
		if account.IsZero() {
			return nil, fmt.Errorf("%w: genesis account", ErrMissingField)
		}
		if _, dup := out.Genesis.Balances[account]; dup {
			return nil, fmt.Errorf("%w %q", ErrDuplicateAccount, account)
		}
		amount, err := ParseAmount(f.Genesis[key])
		if err != nil {
			return nil, fmt.Errorf("scenario: genesis balance of %s: %w", account, err)
		}
		out.Genesis.Balances[account] = amount
	}
	for b, block := range f.Blocks {
		xts := make([]core.Extrinsic, 0, len(block.Extrinsics))
		for i, spec := range block.Extrinsics {
			xt, err := spec.Extrinsic()
			if err != nil {
				return nil, fmt.Errorf("scenario: block %d extrinsic %d: %w", b, i, err)
			}
			xts = append(xts, xt)
		}
		out.Blocks = append(out.Blocks, xts)
	}
	return out, nil
}

// Extrinsic converts the entry into a runtime extrinsic.
func (s ExtrinsicSpec) Extrinsic() (core.Extrinsic, error) {
	caller := types.NewAccountID(s.Caller)
	if caller.IsZero() {
		return core.Extrinsic{}, fmt.Errorf("%w: caller", ErrMissingField)
	}
	switch strings.ToLower(strings.TrimSpace(s.Call)) {
	case CallTransfer:
		to := types.NewAccountID(s.To)
		if to.IsZero() {
			return core.Extrinsic{}, fmt.Errorf("%w: to", ErrMissingField)
		}
		amount, err := ParseAmount(s.Amount)
		if err != nil {
			return core.Extrinsic{}, err
		}
		return core.NewExtrinsic(caller, core.Transfer(to, amount)), nil
	case CallCreateClaim:
		return core.NewExtrinsic(caller, core.CreateClaim([]byte(s.Content))), nil
	case CallRevokeClaim:
		return core.NewExtrinsic(caller, core.RevokeClaim([]byte(s.Content))), nil
	default:
		return core.Extrinsic{}, fmt.Errorf("%w %q", ErrUnknownCall, s.Call)
	}
}

// ParseAmount parses a decimal or 0x-prefixed hexadecimal amount. The empty
// string is zero.
func ParseAmount(raw string) (*uint256.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return new(uint256.Int), nil
	}
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		amount, err := uint256.FromHex(raw)
		if err != nil {
			return nil, fmt.Errorf("scenario: amount %q: %w", raw, err)
		}
		return amount, nil
	}
	amount, err := uint256.FromDecimal(raw)
	if err != nil {
		return nil, fmt.Errorf("scenario: amount %q: %w", raw, err)
	}
	return amount, nil
}
