// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// Node is a fixed-arity branch node: a row tag (implicit from its position
// in a NodeTableEntity) and one child NodeId per branch, indexed 0..arity-1.
// Children always carry a strictly lower row than the node itself, or are
// one of the two terminals (spec.md §3's topological invariant).
type Node struct {
	branch []NodeId
}

// newNode allocates a Node of the given arity with all branches set to Zero.
func newNode(arity int) Node {
	return Node{branch: make([]NodeId, arity)}
}

// Arity returns the number of outgoing branches.
func (n Node) Arity() int {
	return len(n.branch)
}

// Child returns the b-th branch's target id.
func (n Node) Child(b int) NodeId {
	return n.branch[b]
}

// SetChild sets the b-th branch's target id.
func (n *Node) SetChild(b int, id NodeId) {
	n.branch[b] = id
}

// equalBranches reports whether two nodes of the same arity have identical
// branch targets, code-only (ignoring attr bits).
func equalBranches(a, b Node) bool {
	if len(a.branch) != len(b.branch) {
		return false
	}
	for i := range a.branch {
		if !a.branch[i].Equal(b.branch[i]) {
			return false
		}
	}
	return true
}

// hashBranches computes a hash over a node's branch targets, mirroring the
// two/three-way mixing constants used throughout the decision-diagram
// literature this framework is grounded on (314159257, 271828171).
func hashBranches(n Node) uint64 {
	h := uint64(0)
	for _, id := range n.branch {
		h = h*314159257 + id.Hash() + 271828171
	}
	return h
}

// allBranchesEqual reports whether every branch of n targets the same id,
// the collapse condition for BDD reduction (spec.md §4.6).
func allBranchesEqual(n Node) bool {
	for i := 1; i < len(n.branch); i++ {
		if !n.branch[i].Equal(n.branch[0]) {
			return false
		}
	}
	return true
}

// allNonZeroBranchesAreZero reports whether every branch but branch 0
// targets Zero, the collapse condition for ZDD reduction (spec.md §4.6).
// Branch 0 is conventionally the "don't care"/low edge and is exempt.
func allNonZeroBranchesAreZero(n Node) bool {
	for i := 1; i < len(n.branch); i++ {
		if !n.branch[i].IsZero() {
			return false
		}
	}
	return true
}
