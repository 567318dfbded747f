// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// NodeTableEntity is the shared, level-indexed storage for a decision
// diagram: row 0 is implicit (the two terminals), and rows 1..top hold the
// Node branch arrays plus a parallel per-node reference count, which
// ShouldSweep uses to measure a row's dead-node ratio; the Sweeper itself
// decides reachability by marking from the registered roots (spec.md §3,
// §4.8).
type NodeTableEntity struct {
	arity int
	rows  []*rowPool[Node]
	refs  []*rowPool[int32]
	roots []NodeId
}

// NewNodeTableEntity creates an empty table for nodes of the given arity.
func NewNodeTableEntity(arity int) *NodeTableEntity {
	return &NodeTableEntity{arity: arity}
}

// Arity returns the fixed branch count of every node in this table.
func (t *NodeTableEntity) Arity() int {
	return t.arity
}

// TopRow returns the highest row currently allocated (0 if the table is
// still empty).
func (t *NodeTableEntity) TopRow() int {
	return len(t.rows)
}

// ensureRow grows the table so that row (1-indexed) exists, allocating a
// fresh rowPool pair with the given capacity hint.
func (t *NodeTableEntity) ensureRow(row int, capHint int) {
	for len(t.rows) < row {
		t.rows = append(t.rows, newRowPool[Node](capHint))
		t.refs = append(t.refs, newRowPool[int32](capHint))
	}
}

// RowSize returns the number of nodes currently stored at the given row.
// Row 0 always reports size 0 (the terminals are not materialized).
func (t *NodeTableEntity) RowSize(row int) int {
	if row <= 0 || row > len(t.rows) {
		return 0
	}
	return t.rows[row-1].Len()
}

// AddNode appends n to the given row and returns its freshly assigned id.
// The row must already exist (see ensureRow); the new node starts with a
// reference count of zero.
func (t *NodeTableEntity) AddNode(row int, n Node) NodeId {
	pool := t.rows[row-1]
	col := pool.Append(n)
	t.refs[row-1].Append(0)
	return newNodeId(row, col)
}

// GetNode returns the Node stored at id. id must not be a terminal.
func (t *NodeTableEntity) GetNode(id NodeId) Node {
	return t.rows[id.Row()-1].At(id.Col())
}

// SetNode overwrites the Node stored at id.
func (t *NodeTableEntity) SetNode(id NodeId, n Node) {
	t.rows[id.Row()-1].Set(id.Col(), n)
}

// AddRef increments id's reference count by one. Terminal ids are ignored:
// they are never subject to sweeping.
func (t *NodeTableEntity) AddRef(id NodeId) {
	if id.IsTerminal() {
		return
	}
	pool := t.refs[id.Row()-1]
	pool.Set(id.Col(), pool.At(id.Col())+1)
}

// RefCount returns id's current reference count, or a sentinel of
// 1<<30 for a terminal (terminals are always considered live).
func (t *NodeTableEntity) RefCount(id NodeId) int32 {
	if id.IsTerminal() {
		return 1 << 30
	}
	return t.refs[id.Row()-1].At(id.Col())
}

// RegisterRoot adds id as a root of the diagram, implicitly bumping its
// reference count so the Sweeper never reclaims it.
func (t *NodeTableEntity) RegisterRoot(id NodeId) {
	t.roots = append(t.roots, id)
	t.AddRef(id)
}

// Roots returns the currently registered root ids.
func (t *NodeTableEntity) Roots() []NodeId {
	return t.roots
}

// SetRoots replaces the registered roots outright, used after a Reduce or
// Subset pass rewrites every root to its canonical or descended id.
func (t *NodeTableEntity) SetRoots(ids []NodeId) {
	t.roots = append([]NodeId(nil), ids...)
}

// Walk calls fn once for every live (row, col, Node) triple, root-to-leaf:
// from the highest row down to row 1, in column order within each row. It
// does not filter out unreachable nodes; see Sweeper for that.
func (t *NodeTableEntity) Walk(fn func(id NodeId, n Node)) {
	for row := len(t.rows); row >= 1; row-- {
		pool := t.rows[row-1]
		for col := 0; col < pool.Len(); col++ {
			fn(newNodeId(row, col), pool.At(col))
		}
	}
}

// Size returns the total number of nodes across every row (the count
// reported by Diagram.Stats, spec.md §6).
func (t *NodeTableEntity) Size() int {
	n := 0
	for _, pool := range t.rows {
		n += pool.Len()
	}
	return n
}
