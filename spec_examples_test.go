// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// Example Specs exercised by the property tests in this package, each
// grounded on one of the reference Spec implementations shipped with the
// original framework this package's algorithms are grounded on.

// intRange holds an inclusive [lower, upper] bound, the same shape as the
// original IntSubset collaborator SizeConstraint.hpp takes by pointer.
type intRange struct {
	lower, upper int
}

func (r intRange) contains(x int) bool { return x >= r.lower && x <= r.upper }

// sizeConstraintSpec is a ZDD Spec selecting subsets of n items whose size
// falls within [lower, upper], grounded directly on SizeConstraint.hpp
// (spec.md §8's "size-constraint laws" property). Terminal codes follow
// the framework-wide convention: 0 is the false terminal, -1 is the true
// terminal (spec.md §4.3).
type sizeConstraintSpec struct {
	n          int
	constraint intRange
}

// newCombinationSpec returns a Spec selecting exactly k items out of n
// (spec.md §8's "combination identity" property): the degenerate case of
// SizeConstraint.hpp with lower == upper == k.
func newCombinationSpec(n, k int) *sizeConstraintSpec {
	return &sizeConstraintSpec{n: n, constraint: intRange{lower: k, upper: k}}
}

func (s *sizeConstraintSpec) GetRoot(count *int) int {
	*count = 0
	if s.n < s.constraint.lower {
		return 0
	}
	return s.n
}

func (s *sizeConstraintSpec) GetChild(count *int, level int, take int) int {
	if take == 1 {
		if *count >= s.constraint.upper {
			return 0
		}
		*count++
	} else {
		if *count+level <= s.constraint.lower {
			return 0
		}
	}
	level--
	if level >= 1 {
		return level
	}
	if s.constraint.contains(*count) {
		return -1
	}
	return 0
}

func (s *sizeConstraintSpec) GetArity() int           { return 2 }
func (s *sizeConstraintSpec) Copy(dst *int, src int)  { *dst = src }
func (s *sizeConstraintSpec) Destruct(state *int)     {}
func (s *sizeConstraintSpec) DestructLevel(level int) {}
func (s *sizeConstraintSpec) HashCode(state int, level int) uint64 {
	return uint64(state) * 314159257
}
func (s *sizeConstraintSpec) EqualTo(a int, b int, level int) bool { return a == b }

// universalSpec is a ZDD Spec whose diagram contains every one of the 2^n
// subsets of n items, i.e. both branches of every node always survive to
// the true terminal. Grounded on UniversalZdd.hpp, which needs no state at
// all (StatelessDdSpec); here expressed through NewStatelessSpec.
func universalSpec(n int) Spec[struct{}] {
	return NewStatelessSpec(StatelessFuncs{
		Arity: 2,
		Root:  func() int { return n },
		Child: func(level int, b int) int {
			level--
			if level >= 1 {
				return level
			}
			return -1
		},
	})
}

// booleanExprSpec is a BDD Spec for a conjunction of clauses (a CNF
// formula) over n Boolean variables numbered n (top) down to 1 (bottom),
// grounded on ClauseBdd.hpp/CnfBdd140311.hpp: unlike those files' sorted
// literal-cursor bookkeeping, the state here is simply the subset of
// clauses not yet satisfied and not yet falsified, tracked as a bitmask,
// since Go's GC makes a heap-allocated slice state exactly as cheap as a
// fixed array for this framework (no datasize() accounting needed, see
// DESIGN.md's Open Questions).
type clause struct {
	// literal[v] is +1 if variable v appears positively, -1 if negated, 0
	// if v does not appear in this clause.
	literal map[int]int
}

type booleanExprSpec struct {
	n       int
	clauses []clause
}

// newBooleanExprSpec builds a Spec for the conjunction of the given
// clauses over variables 1..n.
func newBooleanExprSpec(n int, clauses []clause) *booleanExprSpec {
	return &booleanExprSpec{n: n, clauses: clauses}
}

// pendingMask is the Spec's state: one bit per clause, set while that
// clause is still undecided at the current level.
type pendingMask uint64

func (s *booleanExprSpec) GetRoot(state *pendingMask) int {
	*state = (pendingMask(1) << uint(len(s.clauses))) - 1
	if len(s.clauses) == 0 {
		return -1 // vacuously true: no clauses to satisfy
	}
	return s.n
}

func (s *booleanExprSpec) GetChild(state *pendingMask, level int, assign int) int {
	mask := *state
	for i, c := range s.clauses {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		lit, ok := c.literal[level]
		if !ok {
			continue
		}
		satisfied := (lit > 0 && assign == 1) || (lit < 0 && assign == 0)
		if satisfied {
			mask &^= 1 << uint(i)
		}
	}
	// A clause is falsified once every one of its literals has been
	// assigned the wrong way; since we only clear bits on satisfaction,
	// detect falsification by checking whether this was the clause's last
	// unassigned variable and it went the wrong way.
	for i, c := range s.clauses {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		lit, ok := c.literal[level]
		if !ok {
			continue
		}
		if lastLiteralOf(c, level) && !((lit > 0 && assign == 1) || (lit < 0 && assign == 0)) {
			return 0 // this clause can never be satisfied now: false terminal
		}
	}
	*state = mask
	level--
	if level >= 1 {
		return level
	}
	if mask == 0 {
		return -1 // every clause satisfied: true terminal
	}
	return 0
}

// lastLiteralOf reports whether level is the lowest-numbered variable c
// refers to (i.e. the last chance to satisfy it during top-down descent).
func lastLiteralOf(c clause, level int) bool {
	lowest := level
	for v := range c.literal {
		if v < lowest {
			lowest = v
		}
	}
	return lowest == level
}

func (s *booleanExprSpec) GetArity() int { return 2 }
func (s *booleanExprSpec) Copy(dst *pendingMask, src pendingMask) {
	*dst = src
}
func (s *booleanExprSpec) Destruct(state *pendingMask)     {}
func (s *booleanExprSpec) DestructLevel(level int)         {}
func (s *booleanExprSpec) HashCode(state pendingMask, level int) uint64 {
	return uint64(state) * 314159257
}
func (s *booleanExprSpec) EqualTo(a pendingMask, b pendingMask, level int) bool {
	return a == b
}

// gridEdge is one edge of a grid graph, given as a pair of vertex indices
// into a row-major V*V vertex numbering.
type gridEdge struct {
	u, v int
}

// pathState tracks, across the edges decided so far, a union-find
// partition of the vertex set plus each vertex's current degree. Grounded
// on PathZdd.hpp's mate-array approach, simplified to track every vertex
// rather than only the search frontier (PathZdd's mates compress this down
// to the frontier currently separating decided from undecided edges; doing
// so here would need a fixed edge ordering chosen to keep the frontier
// narrow, which is exactly the "frontier-based search" the original
// library is named for, and is future work rather than something this
// example needs for correctness on the small grids it is tested against).
type pathState struct {
	parent []int
	degree []int
}

func findRoot(parent []int, x int) int {
	root := x
	for parent[root] != root {
		root = parent[root]
	}
	for parent[x] != root {
		parent[x], x = root, parent[x]
	}
	return root
}

// gridPathSpec is a ZDD Spec over the edges of a V x V grid graph, whose
// accepted sets are exactly the edge sets of a simple path between the two
// opposite corners (vertex 0 and vertex V*V-1). Used to check the
// self-avoiding-path counting property against small, hand-verifiable
// cases (spec.md §8).
type gridPathSpec struct {
	v          int
	edges      []gridEdge
	start, end int
}

func newGridPathSpec(v int) *gridPathSpec {
	var edges []gridEdge
	idx := func(r, c int) int { return r*v + c }
	for r := 0; r < v; r++ {
		for c := 0; c < v; c++ {
			if c+1 < v {
				edges = append(edges, gridEdge{idx(r, c), idx(r, c+1)})
			}
			if r+1 < v {
				edges = append(edges, gridEdge{idx(r, c), idx(r+1, c)})
			}
		}
	}
	return &gridPathSpec{v: v, edges: edges, start: 0, end: v*v - 1}
}

func (s *gridPathSpec) GetRoot(state *pathState) int {
	n := s.v * s.v
	state.parent = make([]int, n)
	state.degree = make([]int, n)
	for i := range state.parent {
		state.parent[i] = i
	}
	if len(s.edges) == 0 {
		return -1 // single-vertex grid: start == end, trivially one path
	}
	return len(s.edges)
}

func (s *gridPathSpec) maxDegree(vertex int) int {
	if vertex == s.start || vertex == s.end {
		return 1
	}
	return 2
}

func (s *gridPathSpec) GetChild(state *pathState, level int, take int) int {
	e := s.edges[level-1]
	if take == 1 {
		ru, rv := findRoot(state.parent, e.u), findRoot(state.parent, e.v)
		if ru == rv {
			return 0 // would close a cycle: false terminal
		}
		if state.degree[e.u]+1 > s.maxDegree(e.u) || state.degree[e.v]+1 > s.maxDegree(e.v) {
			return 0
		}
		state.parent[ru] = rv
		state.degree[e.u]++
		state.degree[e.v]++
	}
	level--
	if level >= 1 {
		return level
	}

	root := findRoot(state.parent, s.start)
	if findRoot(state.parent, s.end) != root {
		return 0
	}
	for vtx := 0; vtx < s.v*s.v; vtx++ {
		if state.degree[vtx] == 0 {
			continue
		}
		if findRoot(state.parent, vtx) != root {
			return 0
		}
	}
	if state.degree[s.start] != 1 || state.degree[s.end] != 1 {
		return 0
	}
	return -1
}

func (s *gridPathSpec) GetArity() int { return 2 }

func (s *gridPathSpec) Copy(dst *pathState, src pathState) {
	dst.parent = append([]int(nil), src.parent...)
	dst.degree = append([]int(nil), src.degree...)
}

func (s *gridPathSpec) Destruct(state *pathState) {}
func (s *gridPathSpec) DestructLevel(level int)   {}

func (s *gridPathSpec) HashCode(state pathState, level int) uint64 {
	roots := make([]int, len(state.parent))
	for i := range roots {
		roots[i] = findRoot(state.parent, i)
	}
	return HashInts(roots)*1099511628211 ^ HashInts(state.degree)
}

func (s *gridPathSpec) EqualTo(a pathState, b pathState, level int) bool {
	if len(a.parent) != len(b.parent) {
		return false
	}
	for i := range a.parent {
		if findRoot(a.parent, i) != findRoot(b.parent, i) {
			return false
		}
		if a.degree[i] != b.degree[i] {
			return false
		}
	}
	return true
}
