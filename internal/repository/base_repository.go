package repository

import (
	"sort"
	"sync"
)

// table is the generic in-memory backing for one entity kind. Reads hand out
// clones, and every write happens under the write lock so a partial merge is
// applied atomically.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[string]row[T]
	seq   uint64
	clone func(T) T
}

type row[T any] struct {
	seq uint64
	val T
}

func newTable[T any](clone func(T) T) *table[T] {
	return &table[T]{rows: map[string]row[T]{}, clone: clone}
}

func (t *table[T]) insert(id string, v T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	t.rows[id] = row[T]{seq: t.seq, val: t.clone(v)}
	return t.clone(v)
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(r.val), true
}

// list returns matching records in insertion order.
func (t *table[T]) list(match func(T) bool) []T {
	t.mu.RLock()
	rows := make([]row[T], 0, len(t.rows))
	for _, r := range t.rows {
		if match == nil || match(r.val) {
			rows = append(rows, r)
		}
	}
	t.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = t.clone(r.val)
	}
	return out
}

func (t *table[T]) update(id string, mutate func(*T)) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	v := t.clone(r.val)
	mutate(&v)
	r.val = v
	t.rows[id] = r
	return t.clone(v), true
}

func (t *table[T]) delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}
