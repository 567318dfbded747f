// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// Sweeper performs a mark-sweep-compact pass over a NodeTableEntity,
// discarding any node unreachable from a registered root and recomputing
// every surviving node's column and reference count from scratch (spec.md
// §4.8). It is triggered automatically once a row's measured dead-node
// ratio crosses the configured alpha threshold, and can also be invoked
// directly via Diagram.Sweep.
type Sweeper struct {
	cfg *configs
}

// NewSweeper creates a Sweeper using the given configuration options.
func NewSweeper(opts ...func(*configs)) *Sweeper {
	cfg := makeconfigs()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Sweeper{cfg: cfg}
}

// ShouldSweep reports whether row's dead-node ratio (1 - live/total) meets
// or exceeds alpha.
func ShouldSweep(table *NodeTableEntity, row int, alpha float64) bool {
	total := table.RowSize(row)
	if total == 0 {
		return false
	}
	live := 0
	for col := 0; col < total; col++ {
		if table.refs[row-1].At(col) > 0 {
			live++
		}
	}
	dead := total - live
	return float64(dead)/float64(total) >= alpha
}

// Sweep runs mark-sweep-compact over table and returns a fresh, compacted
// table plus the rewritten ids of every previously registered root.
func (s *Sweeper) Sweep(table *NodeTableEntity) (*NodeTableEntity, []NodeId) {
	// Mark: flood-fill reachability from the roots, downward only, since
	// children always sit at strictly lower rows (spec.md §3).
	reachable := make([]map[int]bool, table.TopRow()+1)
	for row := range reachable {
		reachable[row] = make(map[int]bool)
	}
	var mark func(id NodeId)
	mark = func(id NodeId) {
		if id.IsTerminal() {
			return
		}
		if reachable[id.Row()][id.Col()] {
			return
		}
		reachable[id.Row()][id.Col()] = true
		n := table.GetNode(id)
		for b := 0; b < n.Arity(); b++ {
			mark(n.Child(b))
		}
	}
	for _, root := range table.Roots() {
		mark(root)
	}

	s.cfg.progress.StartLevel("sweep", 0)

	// Sweep + compact: rebuild row by row, remapping every surviving id to
	// its new column and patching branches along the way.
	dst := NewNodeTableEntity(table.Arity())
	remap := make([]map[int]NodeId, table.TopRow()+1)
	for row := range remap {
		remap[row] = make(map[int]NodeId)
	}

	for row := 1; row <= table.TopRow(); row++ {
		count := 0
		for col := range reachable[row] {
			_ = col
			count++
		}
		if count == 0 {
			continue
		}
		dst.ensureRow(row, count)
		for col := 0; col < table.RowSize(row); col++ {
			if !reachable[row][col] {
				continue
			}
			n := table.GetNode(newNodeId(row, col))
			rewritten := newNode(n.Arity())
			for b := 0; b < n.Arity(); b++ {
				child := n.Child(b)
				if child.IsTerminal() {
					rewritten.SetChild(b, child)
				} else {
					rewritten.SetChild(b, remap[child.Row()][child.Col()])
				}
			}
			id := dst.AddNode(row, rewritten)
			for b := 0; b < rewritten.Arity(); b++ {
				dst.AddRef(rewritten.Child(b))
			}
			remap[row][col] = id
		}
	}

	roots := make([]NodeId, len(table.Roots()))
	for i, root := range table.Roots() {
		if root.IsTerminal() {
			roots[i] = root
		} else {
			roots[i] = remap[root.Row()][root.Col()]
		}
		dst.RegisterRoot(roots[i])
	}

	s.cfg.progress.EndLevel("sweep", 0, dst.Size())
	return dst, roots
}
