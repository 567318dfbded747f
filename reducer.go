// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// ReduceMode selects which canonicalization rule the Reducer applies
// (spec.md §4.6).
type ReduceMode int

const (
	// ModeQDD only merges structurally identical nodes (same branch
	// targets); it never collapses a node onto one of its children.
	ModeQDD ReduceMode = iota
	// ModeBDD additionally collapses a node whose branches are all equal
	// onto that shared target (the classical BDD reduction rule).
	ModeBDD
	// ModeZDD additionally collapses a node whose non-zero branches are
	// all Zero onto its branch-0 target (the classical ZDD reduction
	// rule).
	ModeZDD
)

// Reducer canonicalizes a NodeTableEntity bottom-up under the given mode,
// producing a fresh, smaller table plus the rewritten ids of every root
// that was registered in the source table (spec.md §4.6's multi-root
// fixup).
type Reducer struct {
	mode ReduceMode
	cfg  *configs
}

// NewReducer creates a Reducer for the given mode.
func NewReducer(mode ReduceMode, opts ...func(*configs)) *Reducer {
	cfg := makeconfigs()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Reducer{mode: mode, cfg: cfg}
}

// Reduce canonicalizes src and returns the reduced table along with the
// rewritten id of each root src had registered, in the same order.
func (r *Reducer) Reduce(src *NodeTableEntity) (*NodeTableEntity, []NodeId) {
	dst := NewNodeTableEntity(src.Arity())
	// canon[row][col] maps a source id to its canonical id in dst, or to
	// the id of a node it was folded onto (which may itself be a terminal).
	canon := make([]map[int]NodeId, src.TopRow()+1)
	for row := range canon {
		canon[row] = make(map[int]NodeId)
	}

	for row := 1; row <= src.TopRow(); row++ {
		r.cfg.progress.StartLevel("reduce", row)
		if src.RowSize(row) == 0 {
			r.cfg.progress.EndLevel("reduce", row, 0)
			continue
		}
		dst.ensureRow(row, src.RowSize(row))
		uniq := nodeUniqueTable()

		for col := 0; col < src.RowSize(row); col++ {
			srcID := newNodeId(row, col)
			srcNode := src.GetNode(srcID)

			rewritten := newNode(srcNode.Arity())
			for b := 0; b < srcNode.Arity(); b++ {
				rewritten.SetChild(b, r.resolve(canon, srcNode.Child(b)))
			}

			if folded, ok := r.collapse(rewritten); ok {
				canon[row][col] = folded
				continue
			}

			if existing, ok := uniq.Lookup(rewritten); ok {
				canon[row][col] = existing
				continue
			}
			id := dst.AddNode(row, rewritten)
			for b := 0; b < rewritten.Arity(); b++ {
				dst.AddRef(rewritten.Child(b))
			}
			uniq.Register(rewritten, id)
			canon[row][col] = id
		}
		r.cfg.progress.EndLevel("reduce", row, dst.RowSize(row))
	}

	roots := make([]NodeId, len(src.Roots()))
	for i, root := range src.Roots() {
		id := r.resolve(canon, root)
		roots[i] = id
		dst.RegisterRoot(id)
	}
	return dst, roots
}

// resolve follows a source id to its already-computed canonical id. src
// terminals map to themselves; every non-terminal row is processed
// strictly before any row that references it (topological invariant,
// spec.md §3), so canon[row] is always populated by the time it's needed.
func (r *Reducer) resolve(canon []map[int]NodeId, id NodeId) NodeId {
	if id.IsTerminal() {
		return id
	}
	return canon[id.Row()][id.Col()]
}

// collapse applies the mode-specific short circuit, if any, returning the
// id the node should fold onto and true, or (Zero, false) if the node must
// be materialized as-is.
func (r *Reducer) collapse(n Node) (NodeId, bool) {
	switch r.mode {
	case ModeBDD:
		if allBranchesEqual(n) {
			return n.Child(0), true
		}
	case ModeZDD:
		if allNonZeroBranchesAreZero(n) {
			return n.Child(0), true
		}
	}
	return Zero, false
}
