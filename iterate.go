// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// NodeRecord is a flattened view of one table node, used for introspection
// and for driving an external dump/export routine (stdio-style dumping
// itself stays a non-goal per spec.md; this is the data such a dumper would
// consume).
type NodeRecord struct {
	ID     NodeId
	Row    int
	Col    int
	Branch []NodeId
}

// AllNodes lists every live node in table, row by row, column by column
// (the teacher library's Allnodes/stdio dump walked its unique table the
// same way; this is its structural core without the text formatting).
func AllNodes(table *NodeTableEntity) []NodeRecord {
	var out []NodeRecord
	table.Walk(func(id NodeId, n Node) {
		out = append(out, NodeRecord{
			ID:     id,
			Row:    id.Row(),
			Col:    id.Col(),
			Branch: append([]NodeId(nil), n.branch...),
		})
	})
	return out
}

// Solutions enumerates every root-to-One path from root as a slice of
// branch choices (one entry per row crossed, from the top row down to 1;
// a level the path skips records -1). Meant for small diagrams: tests that
// check enumerated solutions against a closed-form count (spec.md §8), not
// for production-size diagrams where Cardinality should be used instead.
func Solutions(table *NodeTableEntity, root NodeId) [][]int {
	if root.IsZero() {
		return nil
	}
	if root.IsOne() {
		return [][]int{{}}
	}

	var out [][]int
	var walk func(id NodeId, row int, path []int)
	walk = func(id NodeId, row int, path []int) {
		if row == 0 {
			if id.IsOne() {
				out = append(out, append([]int(nil), path...))
			}
			return
		}
		if id.IsZero() {
			return
		}
		if id.Row() < row {
			// The path skipped level `row` entirely (a level-skip edge);
			// record it as unconstrained and move on to the next level.
			walk(id, row-1, append(path, -1))
			return
		}
		n := table.GetNode(id)
		for b := 0; b < n.Arity(); b++ {
			walk(n.Child(b), row-1, append(path, b))
		}
	}
	walk(root, root.Row(), nil)
	return out
}

// CountSolutions is a convenience wrapper equivalent to
// len(Solutions(table, root)); it materializes every path just as Solutions
// does. Cardinality counts paths without enumerating them.
func CountSolutions(table *NodeTableEntity, root NodeId) int {
	return len(Solutions(table, root))
}
