// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// patchRef records a branch of an already-allocated node whose child id is
// still pending: once the frontier state this branch led to is assigned a
// canonical id, the Builder writes that id back into branch b of parent.
type patchRef struct {
	parent NodeId
	branch int
}

// specFrontierNode is one not-yet-canonicalized state discovered while
// expanding a level, together with every branch across the whole table that
// currently needs this state's eventual id patched in. Multiple branches
// (from the same or different parents) collapse onto one specFrontierNode
// whenever the Spec's HashCode/EqualTo judge their states equivalent
// (spec.md §4.4).
type specFrontierNode[T any] struct {
	state   T
	patches []patchRef
}

// frontier holds, for a level currently being assembled, every distinct
// state discovered so far plus the bookkeeping needed to canonicalize and
// patch them once the level is complete. It wraps a uniqueTable keyed by
// the owning Spec's HashCode/EqualTo at a fixed level, mapping a state to
// its index into nodes.
type frontier[T any] struct {
	spec   Spec[T]
	level  int
	unique *uniqueTable[T, int]
	nodes  []*specFrontierNode[T]
}

// newFrontier creates an empty frontier whose states are compared using the
// given Spec at the given level.
func newFrontier[T any](spec Spec[T], level int) *frontier[T] {
	f := &frontier[T]{spec: spec, level: level}
	f.unique = newUniqueTable[T, int](
		func(s T) uint64 { return spec.HashCode(s, level) },
		func(a, b T) bool { return spec.EqualTo(a, b, level) },
	)
	return f
}

// addOrMerge records that parent's branch b leads to state. If an
// equivalent state is already pending at this level, the patch is appended
// to its list (and, if spec implements Merger, its state is merged in);
// otherwise a new frontier node is created and registered. It returns the
// index of the (possibly pre-existing) frontier node in f.nodes.
func (f *frontier[T]) addOrMerge(state T, parent NodeId, branch int) int {
	if idx, ok := f.unique.Lookup(state); ok {
		n := f.nodes[idx]
		n.patches = append(n.patches, patchRef{parent: parent, branch: branch})
		if m, ok := f.spec.(Merger[T]); ok {
			m.MergeStates(&n.state, state)
		} else {
			f.spec.Destruct(&state)
		}
		return idx
	}
	idx := len(f.nodes)
	f.nodes = append(f.nodes, &specFrontierNode[T]{
		state:   state,
		patches: []patchRef{{parent: parent, branch: branch}},
	})
	f.unique.Register(state, idx)
	return idx
}

// Len reports how many distinct states are pending in this frontier.
func (f *frontier[T]) Len() int {
	return len(f.nodes)
}
