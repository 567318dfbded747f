// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

import "math/big"

// Evaluator folds a reduced diagram bottom-up into a single value of type
// V, given the two terminal values and a Combine function describing how a
// node's value is derived from its branch targets' already-computed values
// (spec.md §4.7).
type Evaluator[V any] struct {
	ZeroValue V
	OneValue  V
	// Combine computes the value of a node at the given row from the rows
	// and already-computed values of its branches. branchRows[b] is the row
	// the b-th branch's target lives at (0 for a terminal), letting an
	// implementation detect a level-skip (row-1-branchRows[b] levels
	// skipped) and weight accordingly (e.g. Cardinality's BDD-vs-ZDD
	// semantics below).
	Combine func(row int, branchRows []int, values []V) V
}

// Evaluate runs a bottom-up fold over table starting at root, destructing
// each row's intermediate value array as soon as no row above it can still
// reference it. Liveness is computed with a single pre-pass over the table
// rather than eagerly after each row, since a node can skip several levels
// at once and reference a row far below its immediate predecessor.
func Evaluate[V any](table *NodeTableEntity, root NodeId, e Evaluator[V]) V {
	if root.IsZero() {
		return e.ZeroValue
	}
	if root.IsOne() {
		return e.OneValue
	}

	lastRef := computeLastRef(table)

	values := make([]*rowPool[V], table.TopRow()+1)
	rowValue := func(id NodeId) V {
		if id.IsZero() {
			return e.ZeroValue
		}
		if id.IsOne() {
			return e.OneValue
		}
		return values[id.Row()].At(id.Col())
	}
	rowOf := func(id NodeId) int {
		return id.Row()
	}

	for row := 1; row <= table.TopRow(); row++ {
		size := table.RowSize(row)
		if size == 0 {
			continue
		}
		pool := newRowPool[V](size)
		for col := 0; col < size; col++ {
			n := table.GetNode(newNodeId(row, col))
			branchRows := make([]int, n.Arity())
			vals := make([]V, n.Arity())
			for b := 0; b < n.Arity(); b++ {
				branchRows[b] = rowOf(n.Child(b))
				vals[b] = rowValue(n.Child(b))
			}
			pool.Append(e.Combine(row, branchRows, vals))
		}
		values[row] = pool

		// Free every row that had this row as its last referrer: no row
		// still to be processed (strictly above `row`) references them,
		// since `row` was the highest row pointing into them.
		for _, freed := range lastRef[row] {
			values[freed] = nil
		}
	}

	return rowValue(root)
}

// computeLastRef returns, for each row r, the list of rows whose value
// array becomes safe to free once row r has been processed: namely, every
// row whose highest referencing row is exactly r.
func computeLastRef(table *NodeTableEntity) map[int][]int {
	highestReferrer := make(map[int]int)
	for row := 1; row <= table.TopRow(); row++ {
		for col := 0; col < table.RowSize(row); col++ {
			n := table.GetNode(newNodeId(row, col))
			for b := 0; b < n.Arity(); b++ {
				child := n.Child(b)
				if child.IsTerminal() {
					continue
				}
				if cur, ok := highestReferrer[child.Row()]; !ok || row > cur {
					highestReferrer[child.Row()] = row
				}
			}
		}
	}
	lastRef := make(map[int][]int)
	for row := range table.rows {
		r := row + 1
		if referrer, ok := highestReferrer[r]; ok {
			lastRef[referrer] = append(lastRef[referrer], r)
		}
	}
	return lastRef
}

// Cardinality counts the number of accepting paths from root to the true
// terminal, using math/big since the count grows exponentially in the
// number of levels. weighted selects BDD semantics (every skipped level
// multiplies the count by the node's arity, since a BDD path implicitly
// branches the same way at every level regardless of variable relevance);
// when weighted is false (ZDD semantics), skipped levels contribute no
// multiplier, since a missing level in a ZDD simply means "this item is
// never chosen" along that path (spec.md §4.7, §8).
func Cardinality(table *NodeTableEntity, root NodeId, weighted bool) *big.Int {
	arity := table.Arity()
	e := Evaluator[*big.Int]{
		ZeroValue: big.NewInt(0),
		OneValue:  big.NewInt(1),
		Combine: func(row int, branchRows []int, values []*big.Int) *big.Int {
			sum := big.NewInt(0)
			for b, v := range values {
				term := new(big.Int).Set(v)
				if weighted {
					// branchRows[b] is 0 for both terminals, which is
					// exactly the "conceptual row below every level" a
					// skip count should measure from.
					if skip := row - 1 - branchRows[b]; skip > 0 {
						factor := new(big.Int).Exp(big.NewInt(int64(arity)), big.NewInt(int64(skip)), nil)
						term.Mul(term, factor)
					}
				}
				sum.Add(sum, term)
			}
			return sum
		},
	}
	return Evaluate(table, root, e)
}

// Density estimates the fraction of uniformly random assignments a diagram
// accepts, grounded on Density.hpp's evalTerminal/evalNode: a node's value
// is the plain average of its branches' values, with no level-skip
// weighting. A skip changes nothing here, unlike Cardinality: whatever
// fraction of its own subtree a branch's value already reports is
// unaffected by how many further variables get decided uniformly beneath
// it, since the outcome doesn't depend on their value either way.
func Density(table *NodeTableEntity, root NodeId) float64 {
	e := Evaluator[float64]{
		ZeroValue: 0.0,
		OneValue:  1.0,
		Combine: func(row int, branchRows []int, values []float64) float64 {
			sum := 0.0
			for _, v := range values {
				sum += v
			}
			return sum / float64(len(values))
		},
	}
	return Evaluate(table, root, e)
}
