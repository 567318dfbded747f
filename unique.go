// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// uniqueTable deduplicates values of type T within a single level, using
// Go's builtin map keyed by hash code with a short candidate slice per
// bucket to resolve collisions. The original framework uses a closed-
// addressed hash table over a manually sized array (dd/UniqueTable.hpp);
// the teacher library (hudd.go) already favors Go's builtin map for the
// same purpose, so this table follows that precedent instead of hand-
// rolling open addressing (see DESIGN.md, Open Questions). I is whatever a
// caller wants to associate with a canonicalized value: a NodeId for the
// Reducer's Node dedup, or a plain frontier index for the Builder's state
// dedup.
type uniqueTable[T any, I any] struct {
	buckets map[uint64][]uniqueEntry[T, I]
	hash    func(T) uint64
	equal   func(a, b T) bool
}

type uniqueEntry[T any, I any] struct {
	value T
	id    I
}

// newUniqueTable creates an empty table parameterized by the given hash and
// equality functions.
func newUniqueTable[T any, I any](hash func(T) uint64, equal func(a, b T) bool) *uniqueTable[T, I] {
	return &uniqueTable[T, I]{
		buckets: make(map[uint64][]uniqueEntry[T, I]),
		hash:    hash,
		equal:   equal,
	}
}

// Lookup returns the id previously registered for a value equal to v, if
// any.
func (u *uniqueTable[T, I]) Lookup(v T) (I, bool) {
	h := u.hash(v)
	for _, e := range u.buckets[h] {
		if u.equal(e.value, v) {
			return e.id, true
		}
	}
	var zero I
	return zero, false
}

// Register records that v canonicalizes to id. Callers must have already
// established via Lookup that no equal value is registered.
func (u *uniqueTable[T, I]) Register(v T, id I) {
	h := u.hash(v)
	u.buckets[h] = append(u.buckets[h], uniqueEntry[T, I]{value: v, id: id})
}

// LookupOrRegister is the common get-or-insert idiom: it returns the
// existing id for a value equal to v, or calls makeID to mint a fresh one,
// registers it, and returns it along with false.
func (u *uniqueTable[T, I]) LookupOrRegister(v T, makeID func() I) (I, bool) {
	if id, ok := u.Lookup(v); ok {
		return id, true
	}
	id := makeID()
	u.Register(v, id)
	return id, false
}

// Len reports the number of distinct values currently registered.
func (u *uniqueTable[T, I]) Len() int {
	n := 0
	for _, bucket := range u.buckets {
		n += len(bucket)
	}
	return n
}

// nodeUniqueTable returns a uniqueTable specialized for deduplicating
// canonical Node branch arrays into NodeIds, as used by the Reducer
// (spec.md §4.6).
func nodeUniqueTable() *uniqueTable[Node, NodeId] {
	return newUniqueTable[Node, NodeId](hashBranches, equalBranches)
}
