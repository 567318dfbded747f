// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// Spec is the contract a client implements to describe, level by level, the
// decision diagram a Builder or Subsetter should materialize. T is the
// client's state type: what the original framework splits into scalar,
// POD-array, and hybrid template specializations (DdSpecBase /
// StatelessDdSpec / DdSpec<S> / PodArrayDdSpec<S> / HybridDdSpec<S,A>, see
// original_source/include/tdzdd/DdSpec.hpp) collapses here into a single
// generic interface, since Go's garbage collector removes the need to lay
// state out as a fixed-size byte array for manual arena placement
// (SPEC_FULL.md §3, DESIGN.md Open Questions).
type Spec[T any] interface {
	// GetRoot initializes and returns the root state, along with the level
	// it belongs to. A level of 0 means the whole diagram is the false
	// terminal; a level of -1 means it is the true terminal.
	GetRoot(state *T) int

	// GetChild computes the b-th child of state, currently known to be at
	// the given level, and overwrites state in place with the child's
	// state. It returns the child's level: a positive value names the
	// level the child lives at (which must be strictly less than level),
	// 0 means the child is the false terminal, and -1 means the child is
	// the true terminal.
	GetChild(state *T, level int, b int) int

	// GetArity returns the fixed branch count (b ranges over
	// 0..GetArity()-1 in GetChild).
	GetArity() int

	// Copy duplicates src into dst, used whenever the framework needs to
	// retain a state across more than one outgoing branch.
	Copy(dst *T, src T)

	// Destruct releases any resources held by state. For plain Go states
	// with no external resources this is usually a no-op.
	Destruct(state *T)

	// DestructLevel is called once a level will never be visited again, so
	// a Spec can release level-indexed caches of its own (e.g. a
	// memoization table). Most Specs can leave this empty.
	DestructLevel(level int)

	// HashCode returns a hash of state at the given level, used to bucket
	// states for uniqueness tests.
	HashCode(state T, level int) uint64

	// EqualTo reports whether state and other, both known to be at the
	// given level, describe the same node and so should be merged.
	EqualTo(state T, other T, level int) bool
}

// Merger is an optional extension a Spec can implement to merge two states
// that EqualTo found equivalent, when being equivalent doesn't mean being
// identical (the MergeStates hook of spec.md §4.4's edge cases, used by
// Specs whose state carries auxiliary, order-independent information).
type Merger[T any] interface {
	MergeStates(dst *T, src T)
}

// StatelessFuncs packages the GetRoot/GetChild logic of a Spec whose state
// is always the zero value of T (or otherwise irrelevant): the analogue of
// the original framework's StatelessDdSpec specialization, for e.g. a Spec
// whose only state is "which level am I at".
type StatelessFuncs struct {
	Arity    int
	Root     func() int
	Child    func(level int, b int) int
	HashFunc func(level int) uint64
}

// statelessAdapter turns a StatelessFuncs bundle into a full Spec[struct{}].
type statelessAdapter struct {
	funcs StatelessFuncs
}

// NewStatelessSpec builds a Spec[struct{}] from a StatelessFuncs bundle.
func NewStatelessSpec(funcs StatelessFuncs) Spec[struct{}] {
	return &statelessAdapter{funcs: funcs}
}

func (a *statelessAdapter) GetRoot(state *struct{}) int {
	return a.funcs.Root()
}

func (a *statelessAdapter) GetChild(state *struct{}, level int, b int) int {
	return a.funcs.Child(level, b)
}

func (a *statelessAdapter) GetArity() int {
	return a.funcs.Arity
}

func (a *statelessAdapter) Copy(dst *struct{}, src struct{}) {}

func (a *statelessAdapter) Destruct(state *struct{}) {}

func (a *statelessAdapter) DestructLevel(level int) {}

func (a *statelessAdapter) HashCode(state struct{}, level int) uint64 {
	if a.funcs.HashFunc != nil {
		return a.funcs.HashFunc(level)
	}
	return uint64(level) * 314159257
}

func (a *statelessAdapter) EqualTo(state struct{}, other struct{}, level int) bool {
	return true
}

// HashInts is a convenience hash helper for array-style states: a Spec
// whose state is, say, a fixed-size array of counters can implement
// HashCode by calling this over a slice view of that array.
func HashInts(xs []int) uint64 {
	h := uint64(14695981039346656037) // FNV offset basis
	for _, x := range xs {
		h ^= uint64(uint32(x))
		h *= 1099511628211 // FNV prime
	}
	return h
}

// EqualInts is the matching equality helper for HashInts-style states.
func EqualInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
