package storage

import (
	"bytes"
	"fmt"
	"strings"
)

// Table scopes every key of the wrapped database under a fixed prefix. Keys
// passed to and returned from a Table never include the prefix.
type Table struct {
	db     Database
	prefix []byte
}

// NewTable wraps db so that all keys are stored under prefix.
func NewTable(db Database, prefix string) *Table {
	return &Table{db: db, prefix: []byte(prefix)}
}

func (t *Table) key(key []byte) []byte {
	buf := make([]byte, len(t.prefix)+len(key))
	copy(buf, t.prefix)
	copy(buf[len(t.prefix):], key)
	return buf
}

// Prefix returns the namespace prefix of the table.
func (t *Table) Prefix() string { return string(t.prefix) }

func (t *Table) Get(key []byte) ([]byte, error) { return t.db.Get(t.key(key)) }
func (t *Table) Has(key []byte) (bool, error)   { return t.db.Has(t.key(key)) }
func (t *Table) Put(key, value []byte) error    { return t.db.Put(t.key(key), value) }
func (t *Table) Delete(key []byte) error        { return t.db.Delete(t.key(key)) }

// Iterate walks keys under the table prefix, handing fn keys with the table
// prefix stripped.
func (t *Table) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	return t.db.Iterate(t.key(prefix), func(key, value []byte) error {
		return fn(bytes.TrimPrefix(key, t.prefix), value)
	})
}

// Close is a no-op; the parent database owns the connection.
func (t *Table) Close() {}

// Table returns a nested table under "<prefix><name>/".
func (t *Table) Table(name string) *Table {
	return NewTable(t.db, t.Prefix()+name+"/")
}

// Namespace hands out one Table per module. Prefixes are exclusive: two
// modules can never be given overlapping key spaces.
type Namespace struct {
	db       Database
	prefixes map[string]struct{}
}

// NewNamespace creates an empty namespace over db.
func NewNamespace(db Database) *Namespace {
	return &Namespace{db: db, prefixes: make(map[string]struct{})}
}

// Table reserves the prefix "<module>/" and returns its table. Reserving the
// same module twice, or a module name containing "/", is a wiring bug and
// panics.
func (n *Namespace) Table(module string) *Table {
	name := strings.TrimSpace(module)
	if name == "" || strings.Contains(name, "/") {
		panic(fmt.Sprintf("storage: invalid module name %q", module))
	}
	if _, taken := n.prefixes[name]; taken {
		panic(fmt.Sprintf("storage: module %q already registered", name))
	}
	n.prefixes[name] = struct{}{}
	return NewTable(n.db, name+"/")
}

// Modules returns the number of reserved module prefixes.
func (n *Namespace) Modules() int { return len(n.prefixes) }
