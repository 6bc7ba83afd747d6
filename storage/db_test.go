package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func openBackends(t *testing.T) map[string]Database {
	t.Helper()
	lvl, err := NewLevelDB()
	require.NoError(t, err)
	t.Cleanup(lvl.Close)
	return map[string]Database{
		BackendMemDB:   NewMemDB(),
		BackendLevelDB: lvl,
	}
}

func TestDatabaseBasicOperations(t *testing.T) {
	for name, db := range openBackends(t) {
		db := db
		t.Run(name, func(t *testing.T) {
			_, err := db.Get([]byte("missing"))
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, db.Put([]byte("k"), []byte("v1")))
			require.NoError(t, db.Put([]byte("k"), []byte("v2")))
			got, err := db.Get([]byte("k"))
			require.NoError(t, err)
			require.Equal(t, []byte("v2"), got)

			ok, err := db.Has([]byte("k"))
			require.NoError(t, err)
			require.True(t, ok)

			require.NoError(t, db.Delete([]byte("k")))
			require.NoError(t, db.Delete([]byte("k")))
			ok, err = db.Has([]byte("k"))
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestDatabaseIterateOrdered(t *testing.T) {
	for name, db := range openBackends(t) {
		db := db
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"b/2", "a/1", "b/1", "c/1", "b/3"} {
				require.NoError(t, db.Put([]byte(k), []byte(k)))
			}
			var seen []string
			require.NoError(t, db.Iterate([]byte("b/"), func(key, value []byte) error {
				require.Equal(t, key, value)
				seen = append(seen, string(key))
				return nil
			}))
			require.Equal(t, []string{"b/1", "b/2", "b/3"}, seen)

			stop := errors.New("stop")
			calls := 0
			err := db.Iterate(nil, func(key, value []byte) error {
				calls++
				return stop
			})
			require.ErrorIs(t, err, stop)
			require.Equal(t, 1, calls)
		})
	}
}

func TestMemDBGetReturnsCopy(t *testing.T) {
	db := NewMemDB()
	value := []byte("abc")
	require.NoError(t, db.Put([]byte("k"), value))
	value[0] = 'z'

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got)
	got[1] = 'z'

	again, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), again)
}

func TestOpenBackends(t *testing.T) {
	db, err := Open("")
	require.NoError(t, err)
	require.IsType(t, &MemDB{}, db)

	db, err = Open(" LevelDB ")
	require.NoError(t, err)
	require.IsType(t, &LevelDB{}, db)
	db.Close()

	_, err = Open("rocksdb")
	require.Error(t, err)
}
