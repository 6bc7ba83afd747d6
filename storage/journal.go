package storage

import (
	"bytes"
	"errors"
	"sort"
)

var (
	// ErrChangeSetOpen is returned when Begin is called while a change set is
	// already pending, or when iterating with uncommitted writes.
	ErrChangeSetOpen = errors.New("storage: change set already open")
	// ErrNoChangeSet is returned by Commit without a matching Begin.
	ErrNoChangeSet = errors.New("storage: no open change set")
)

type pendingWrite struct {
	value   []byte
	deleted bool
}

// Journal buffers writes issued between Begin and Commit so that a unit of
// work is applied to the wrapped database either completely or not at all,
// provided the database is a Batcher. Outside a change set writes go
// straight through.
//
// Journal is not safe for concurrent use.
type Journal struct {
	base    Database
	pending map[string]pendingWrite
}

// NewJournal wraps base.
func NewJournal(base Database) *Journal {
	return &Journal{base: base}
}

// Begin opens a change set.
func (j *Journal) Begin() error {
	if j.pending != nil {
		return ErrChangeSetOpen
	}
	j.pending = make(map[string]pendingWrite)
	return nil
}

// Active reports whether a change set is open.
func (j *Journal) Active() bool { return j.pending != nil }

// Commit flushes the open change set to the base database in key order.
// When the base implements Batcher the flush is atomic; otherwise a failing
// write leaves the keys before it applied and the change set is lost.
func (j *Journal) Commit() error {
	if j.pending == nil {
		return ErrNoChangeSet
	}
	pending := j.pending
	j.pending = nil
	keys := make([]string, 0, len(pending))
	for k := range pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if batcher, ok := j.base.(Batcher); ok {
		batch := batcher.NewBatch()
		for _, k := range keys {
			if w := pending[k]; w.deleted {
				batch.Delete([]byte(k))
			} else {
				batch.Put([]byte(k), w.value)
			}
		}
		return batch.Write()
	}
	for _, k := range keys {
		w := pending[k]
		var err error
		if w.deleted {
			err = j.base.Delete([]byte(k))
		} else {
			err = j.base.Put([]byte(k), w.value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Rollback discards the open change set. It is a no-op when none is open.
func (j *Journal) Rollback() {
	j.pending = nil
}

// Dirty returns the number of keys touched by the open change set.
func (j *Journal) Dirty() int { return len(j.pending) }

func (j *Journal) Get(key []byte) ([]byte, error) {
	if w, ok := j.pending[string(key)]; ok {
		if w.deleted {
			return nil, ErrNotFound
		}
		return append([]byte(nil), w.value...), nil
	}
	return j.base.Get(key)
}

func (j *Journal) Has(key []byte) (bool, error) {
	if w, ok := j.pending[string(key)]; ok {
		return !w.deleted, nil
	}
	return j.base.Has(key)
}

func (j *Journal) Put(key, value []byte) error {
	if j.pending == nil {
		return j.base.Put(key, value)
	}
	j.pending[string(key)] = pendingWrite{value: append([]byte(nil), value...)}
	return nil
}

func (j *Journal) Delete(key []byte) error {
	if j.pending == nil {
		return j.base.Delete(key)
	}
	j.pending[string(key)] = pendingWrite{deleted: true}
	return nil
}

// Iterate walks committed state only; it refuses to run while a change set
// holds writes that would be invisible to it.
func (j *Journal) Iterate(prefix []byte, fn func(key, value []byte) error) error {
	for k := range j.pending {
		if bytes.HasPrefix([]byte(k), prefix) {
			return ErrChangeSetOpen
		}
	}
	return j.base.Iterate(prefix, fn)
}

// Close closes the base database.
func (j *Journal) Close() {
	j.pending = nil
	j.base.Close()
}
