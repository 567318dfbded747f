// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// Builder materializes a decision diagram breadth-first, top-down, from a
// Spec: it expands the frontier of live states one level at a time,
// deduplicating states the Spec judges equivalent at the same level into a
// single canonical node before expanding their children (spec.md §4.4).
type Builder[T any] struct {
	spec Spec[T]
	cfg  *configs
}

// NewBuilder creates a Builder for the given Spec, applying any of
// Workers, InitialRows, SweepThreshold, DisableSweep, or Progress.
func NewBuilder[T any](spec Spec[T], opts ...func(*configs)) *Builder[T] {
	cfg := makeconfigs()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Builder[T]{spec: spec, cfg: cfg}
}

// rootSentinel marks a patchRef that belongs to the diagram's root rather
// than to some parent node's branch: Zero's row is always 0, and no real
// parent node (always allocated at row >= 1) ever produces that row, so it
// is safe to use as a marker here.
var rootSentinel = Zero

// Build runs the sequential construction algorithm (spec.md §4.4) and
// returns the resulting table together with the diagram's single root id.
// If cfg.workers was set above 1, Build delegates to the parallel algorithm
// (builder_parallel.go) instead.
func (b *Builder[T]) Build() (*NodeTableEntity, NodeId, error) {
	if b.cfg.workers > 1 {
		return b.buildParallel()
	}

	var rootState T
	rootLevel := b.spec.GetRoot(&rootState)
	table := NewNodeTableEntity(b.spec.GetArity())
	if rootLevel == 0 {
		return table, Zero, nil
	}
	if rootLevel < 0 {
		return table, One, nil
	}
	if rootLevel > MaxRow {
		return nil, Zero, newError(RowOverflow, "root level %d exceeds MaxRow (%d)", rootLevel, MaxRow)
	}

	frontiers := make(map[int]*frontier[T])
	frontiers[rootLevel] = newFrontier(b.spec, rootLevel)
	frontiers[rootLevel].addOrMerge(rootState, rootSentinel, 0)

	var rootID NodeId
	arity := b.spec.GetArity()

	for level := rootLevel; level >= 1; level-- {
		fr := frontiers[level]
		if fr == nil || fr.Len() == 0 {
			b.spec.DestructLevel(level)
			delete(frontiers, level)
			continue
		}
		b.cfg.progress.StartLevel("build", level)
		table.ensureRow(level, b.cfg.initialRowCap)

		ids := make([]NodeId, fr.Len())
		for i, fn := range fr.nodes {
			id := table.AddNode(level, newNode(arity))
			ids[i] = id
			for _, p := range fn.patches {
				if p.parent == rootSentinel {
					rootID = id
					continue
				}
				table.AddRef(id)
				parentNode := table.GetNode(p.parent)
				parentNode.SetChild(p.branch, id)
				table.SetNode(p.parent, parentNode)
			}
		}

		for i, fn := range fr.nodes {
			id := ids[i]
			for br := 0; br < arity; br++ {
				var childState T
				b.spec.Copy(&childState, fn.state)
				childLevel := b.spec.GetChild(&childState, level, br)

				switch {
				case childLevel == 0:
					patchOrSet(table, id, br, Zero)
				case childLevel < 0:
					patchOrSet(table, id, br, One)
				default:
					if childLevel >= level {
						return nil, Zero, newError(ChildLevelMonotonicity,
							"child level %d is not below parent level %d", childLevel, level)
					}
					cf := frontiers[childLevel]
					if cf == nil {
						cf = newFrontier(b.spec, childLevel)
						frontiers[childLevel] = cf
					}
					cf.addOrMerge(childState, id, br)
				}
			}
			b.spec.Destruct(&fn.state)
		}

		b.cfg.progress.EndLevel("build", level, table.RowSize(level))
		b.spec.DestructLevel(level)
		delete(frontiers, level)
	}

	table.RegisterRoot(rootID)
	return table, rootID, nil
}

// patchOrSet writes a terminal child directly into parent's branch. It is
// named distinctly from the frontier patch mechanism because terminals
// never go through a frontier: their id is already final.
func patchOrSet(table *NodeTableEntity, parent NodeId, branch int, child NodeId) {
	n := table.GetNode(parent)
	n.SetChild(branch, child)
	table.SetNode(parent, n)
	table.AddRef(child)
}
