// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// BddToZdd and ZddToBdd reinterpret an already-built, arity-2 DAG under the
// opposite reduction semantics, grounded on DdToDd.hpp's BddToZdd/ZddToBdd:
// a BDD-reduced diagram's level skips mean "this variable doesn't matter"
// (both values reach the same place), while a ZDD-reduced diagram has no
// such skips at all once its own collapse rule (allNonZeroBranchesAreZero)
// is accounted for. Converting between the two means walking every explicit
// level from n down to 1 and inserting, at each level the source DAG
// skipped over, a materialized "don't care" node whose two branches point
// to the same place (BddToZdd) or a materialized "never chosen" node whose
// branch-1 target is forced to Zero (ZddToBdd) instead of silently passing
// through. The result is then re-reduced under the target mode.

type convertEntry struct {
	id    NodeId
	level int
}

// expandMemo deduplicates (source id, explicit level) pairs: the same
// source node can be reached at different levels of explicit expansion
// through different parents, and each such pair expands to a distinct
// rewritten subtree.
type expandMemo map[convertEntry]NodeId

// BddToZdd rewrites a BDD-reduced diagram (root, built over n variables
// numbered n down to 1) into an equivalent diagram expressing the same
// Boolean function under ZDD semantics, then reduces it under ModeZDD.
// Precondition: every node in src has arity 2.
func BddToZdd(src *NodeTableEntity, root NodeId, n int, opts ...func(*configs)) (*NodeTableEntity, NodeId) {
	dst := NewNodeTableEntity(2)
	memo := make(expandMemo)
	rowUnique := make(map[int]*uniqueTable[Node, NodeId])

	var expand func(id NodeId, level int) NodeId
	expand = func(id NodeId, level int) NodeId {
		if level == 0 {
			return id
		}
		key := convertEntry{id: id, level: level}
		if existing, ok := memo[key]; ok {
			return existing
		}

		var rewritten Node
		if !id.IsTerminal() && id.Row() == level {
			// A real decision at this level: descend into the source
			// node's own branches, each one level lower.
			srcNode := src.GetNode(id)
			rewritten = newNode(2)
			rewritten.SetChild(0, expand(srcNode.Child(0), level-1))
			rewritten.SetChild(1, expand(srcNode.Child(1), level-1))
		} else {
			// A skipped level: under BDD semantics, this variable is
			// irrelevant here, so both values lead to the same place.
			child := expand(id, level-1)
			rewritten = newNode(2)
			rewritten.SetChild(0, child)
			rewritten.SetChild(1, child)
		}

		uniq, ok := rowUnique[level]
		if !ok {
			uniq = nodeUniqueTable()
			rowUnique[level] = uniq
		}
		if existing, ok := uniq.Lookup(rewritten); ok {
			memo[key] = existing
			return existing
		}
		dst.ensureRow(level, 1)
		newID := dst.AddNode(level, rewritten)
		for b := 0; b < 2; b++ {
			dst.AddRef(rewritten.Child(b))
		}
		uniq.Register(rewritten, newID)
		memo[key] = newID
		return newID
	}

	rewrittenRoot := expand(root, n)
	dst.RegisterRoot(rewrittenRoot)

	r := NewReducer(ModeZDD, opts...)
	reduced, roots := r.Reduce(dst)
	return reduced, roots[0]
}

// ZddToBdd rewrites a ZDD-reduced diagram (root, built over n variables
// numbered n down to 1) into an equivalent diagram expressing the same set
// family under BDD semantics, then reduces it under ModeBDD.
// Precondition: every node in src has arity 2.
func ZddToBdd(src *NodeTableEntity, root NodeId, n int, opts ...func(*configs)) (*NodeTableEntity, NodeId) {
	dst := NewNodeTableEntity(2)
	memo := make(expandMemo)
	rowUnique := make(map[int]*uniqueTable[Node, NodeId])

	var expand func(id NodeId, level int) NodeId
	expand = func(id NodeId, level int) NodeId {
		if level == 0 {
			return id
		}
		key := convertEntry{id: id, level: level}
		if existing, ok := memo[key]; ok {
			return existing
		}

		var rewritten Node
		if !id.IsTerminal() && id.Row() == level {
			srcNode := src.GetNode(id)
			rewritten = newNode(2)
			rewritten.SetChild(0, expand(srcNode.Child(0), level-1))
			rewritten.SetChild(1, expand(srcNode.Child(1), level-1))
		} else {
			// A skipped level: under ZDD semantics, this item is never
			// chosen here, so choosing it (branch 1) is unconditionally
			// rejected, while not choosing it (branch 0) passes through.
			rewritten = newNode(2)
			rewritten.SetChild(0, expand(id, level-1))
			rewritten.SetChild(1, Zero)
		}

		uniq, ok := rowUnique[level]
		if !ok {
			uniq = nodeUniqueTable()
			rowUnique[level] = uniq
		}
		if existing, ok := uniq.Lookup(rewritten); ok {
			memo[key] = existing
			return existing
		}
		dst.ensureRow(level, 1)
		newID := dst.AddNode(level, rewritten)
		for b := 0; b < 2; b++ {
			dst.AddRef(rewritten.Child(b))
		}
		uniq.Register(rewritten, newID)
		memo[key] = newID
		return newID
	}

	rewrittenRoot := expand(root, n)
	dst.RegisterRoot(rewrittenRoot)

	r := NewReducer(ModeBDD, opts...)
	reduced, roots := r.Reduce(dst)
	return reduced, roots[0]
}
