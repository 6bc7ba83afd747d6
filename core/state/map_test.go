package state

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"palletchain/storage"
)

type record struct {
	Owner string
	Count uint64
}

func TestMapInsertGetRemove(t *testing.T) {
	table := storage.NewNamespace(storage.NewMemDB()).Table("test")
	m := NewMap[string, record]("Records", table)

	_, ok, err := m.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Insert("a", record{Owner: "alice", Count: 1}))
	require.NoError(t, m.Insert("a", record{Owner: "alice", Count: 2}))
	got, ok, err := m.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record{Owner: "alice", Count: 2}, got)

	present, err := m.Contains("a")
	require.NoError(t, err)
	require.True(t, present)

	removed, ok, err := m.Remove("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(2), removed.Count)

	_, ok, err = m.Remove("a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMapStoresUint256(t *testing.T) {
	table := storage.NewNamespace(storage.NewMemDB()).Table("balances")
	m := NewMap[string, *uint256.Int]("Balances", table)

	huge := new(uint256.Int).SetAllOne()
	require.NoError(t, m.Insert("whale", huge))
	require.NoError(t, m.Insert("minnow", uint256.NewInt(7)))

	got, ok, err := m.Get("whale")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Eq(huge))

	got, _, err = m.Get("minnow")
	require.NoError(t, err)
	require.Equal(t, uint64(7), got.Uint64())
}

func TestMapsOnSeparateTablesDoNotCollide(t *testing.T) {
	ns := storage.NewNamespace(storage.NewMemDB())
	first := NewMap[[]byte, string]("First", ns.Table("first"))
	second := NewMap[[]byte, string]("Second", ns.Table("second"))

	require.NoError(t, first.Insert([]byte("key"), "one"))
	_, ok, err := second.Get([]byte("key"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestValueGetPutKill(t *testing.T) {
	v := NewValue[uint64]("Number", storage.NewNamespace(storage.NewMemDB()).Table("system"))

	_, ok, err := v.Get()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, v.Put(42))
	got, ok, err := v.Get()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(42), got)

	require.NoError(t, v.Kill())
	_, ok, err = v.Get()
	require.NoError(t, err)
	require.False(t, ok)
}
