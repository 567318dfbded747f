// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

import "math/big"

// DiagramKind selects the canonicalization rule a Diagram's Reduce applies,
// the user-facing synonym of ReduceMode.
type DiagramKind = ReduceMode

const (
	QDD = ModeQDD
	BDD = ModeBDD
	ZDD = ModeZDD
)

// Diagram is the user-facing handle over a decision diagram: a
// NodeTableEntity plus its current root, built, subsetted, reduced, and
// evaluated through the methods below rather than by poking at the table
// directly (spec.md §6).
type Diagram struct {
	table *NodeTableEntity
	root  NodeId
	cfg   *configs
}

// Build constructs a new Diagram from spec using the sequential or
// parallel Builder, depending on the Workers option.
func Build[T any](spec Spec[T], opts ...func(*configs)) (*Diagram, error) {
	b := NewBuilder(spec, opts...)
	table, root, err := b.Build()
	if err != nil {
		return nil, err
	}
	d := &Diagram{table: table, root: root, cfg: b.cfg}
	d.maybeSweep()
	return d, nil
}

// Subset returns a new Diagram keeping only the part of d that spec agrees
// is reachable (spec.md §4.5).
func Subset[T any](d *Diagram, spec Spec[T], opts ...func(*configs)) (*Diagram, error) {
	s := NewSubsetter(d.table, spec, opts...)
	table, root, err := s.Subset(d.root)
	if err != nil {
		return nil, err
	}
	out := &Diagram{table: table, root: root, cfg: s.cfg}
	out.maybeSweep()
	return out, nil
}

// Reduce canonicalizes d under mode and returns the resulting Diagram.
func (d *Diagram) Reduce(mode ReduceMode) *Diagram {
	r := NewReducer(mode, withConfig(d.cfg))
	table, roots := r.Reduce(d.table)
	root := Zero
	if len(roots) > 0 {
		root = roots[0]
	}
	return &Diagram{table: table, root: root, cfg: d.cfg}
}

// Exist returns the part of d that spec accepts, reduced under mode: a
// subset-then-reduce pipeline rather than an in-place rewrite, so that the
// original Diagram remains valid and reusable after the call. It does not
// abstract any variable away: no two branches of a node are OR-ed together,
// so the result never accepts a path that d rejects.
func Exist[T any](d *Diagram, spec Spec[T], mode ReduceMode, opts ...func(*configs)) (*Diagram, error) {
	sub, err := Subset(d, spec, opts...)
	if err != nil {
		return nil, err
	}
	return sub.Reduce(mode), nil
}

// EvaluateDiagram folds d bottom-up using e. Named distinctly from the
// package-level Evaluate, which a Spec-less caller can use directly against
// a raw NodeTableEntity.
func EvaluateDiagram[V any](d *Diagram, e Evaluator[V]) V {
	return Evaluate(d.table, d.root, e)
}

// Cardinality counts d's accepting paths. weighted selects BDD-style
// level-skip weighting; pass false for ZDD semantics.
func (d *Diagram) Cardinality(weighted bool) *big.Int {
	return Cardinality(d.table, d.root, weighted)
}

// Density estimates the fraction of uniformly random assignments d accepts.
func (d *Diagram) Density() float64 {
	return Density(d.table, d.root)
}

// ToZdd reinterprets d, built over n variables under BDD semantics, as a
// ZDD representing the same Boolean function (spec.md §8's BDD<->ZDD round
// trip). Precondition: d's nodes all have arity 2.
func (d *Diagram) ToZdd(n int) *Diagram {
	table, root := BddToZdd(d.table, d.root, n, withConfig(d.cfg))
	return &Diagram{table: table, root: root, cfg: d.cfg}
}

// ToBdd reinterprets d, built over n variables under ZDD semantics, as a
// BDD representing the same set family (spec.md §8's BDD<->ZDD round trip).
// Precondition: d's nodes all have arity 2.
func (d *Diagram) ToBdd(n int) *Diagram {
	table, root := ZddToBdd(d.table, d.root, n, withConfig(d.cfg))
	return &Diagram{table: table, root: root, cfg: d.cfg}
}

// Solutions enumerates every accepting path of d; see the package-level
// Solutions function for the level-skip encoding.
func (d *Diagram) Solutions() [][]int {
	return Solutions(d.table, d.root)
}

// AllNodes lists every live node of d.
func (d *Diagram) AllNodes() []NodeRecord {
	return AllNodes(d.table)
}

// Root returns d's current root id.
func (d *Diagram) Root() NodeId {
	return d.root
}

// Stats summarizes a Diagram's size, for monitoring and for the Prometheus
// collector in metrics.go.
type Stats struct {
	TopRow    int
	NodeCount int
	RowSizes  []int
}

// Stats reports size information about d's current table.
func (d *Diagram) Stats() Stats {
	s := Stats{TopRow: d.table.TopRow(), NodeCount: d.table.Size()}
	for row := 1; row <= d.table.TopRow(); row++ {
		s.RowSizes = append(s.RowSizes, d.table.RowSize(row))
	}
	return s
}

// Sweep runs garbage collection over d's table unconditionally, returning
// the compacted Diagram.
func (d *Diagram) Sweep() *Diagram {
	sw := NewSweeper(withConfig(d.cfg))
	table, roots := sw.Sweep(d.table)
	root := Zero
	if len(roots) > 0 {
		root = roots[0]
	}
	return &Diagram{table: table, root: root, cfg: d.cfg}
}

// maybeSweep runs the Sweeper automatically if any row's dead-node ratio
// has crossed the configured threshold and sweeping hasn't been disabled
// (spec.md §4.8).
func (d *Diagram) maybeSweep() {
	if d.cfg.sweepDisabled {
		return
	}
	for row := 1; row <= d.table.TopRow(); row++ {
		if ShouldSweep(d.table, row, d.cfg.sweepAlpha) {
			swept := d.Sweep()
			d.table, d.root = swept.table, swept.root
			return
		}
	}
}

// withConfig is a configuration option that copies every field out of an
// existing *configs, letting internal code (Reduce, Sweep) reuse a
// Diagram's settings without re-exposing a constructor for configs itself.
func withConfig(src *configs) func(*configs) {
	return func(c *configs) {
		*c = *src
	}
}
