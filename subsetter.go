// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// Subsetter descends an existing diagram and a Spec in lock step, keeping
// only the part of the diagram the Spec agrees is still reachable, and
// collapsing any node whose every branch syncs down to the same (DAG node,
// spec state) pair (spec.md §4.5's sync-down/zero-chain-collapse). It
// produces a fresh NodeTableEntity rather than mutating the source diagram.
type Subsetter[T any] struct {
	spec   Spec[T]
	source *NodeTableEntity
	cfg    *configs
}

// NewSubsetter creates a Subsetter that will walk src guided by spec.
func NewSubsetter[T any](src *NodeTableEntity, spec Spec[T], opts ...func(*configs)) *Subsetter[T] {
	cfg := makeconfigs()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Subsetter[T]{spec: spec, source: src, cfg: cfg}
}

// pairState identifies a (source node id, spec state) pair during descent;
// the subsetter's frontier dedups on this pair exactly as the builder dedups
// on state alone, via the Spec's HashCode/EqualTo plus the source id.
type pairState[T any] struct {
	srcID NodeId
	state T
}

// Subset runs the lock-step descent starting at root (a node id in the
// source table) and returns the resulting table and its root id.
func (s *Subsetter[T]) Subset(root NodeId) (*NodeTableEntity, NodeId, error) {
	table := NewNodeTableEntity(s.spec.GetArity())

	if root.IsZero() {
		return table, Zero, nil
	}

	var rootState T
	rootSpecLevel := s.spec.GetRoot(&rootState)
	if rootSpecLevel == 0 {
		// Spec rejects everything from the start: nothing survives.
		return table, Zero, nil
	}
	if rootSpecLevel < 0 {
		// Spec accepts everything from the start: the whole source
		// subtree under root survives unconstrained.
		return copyReachable(s.source, root)
	}
	if rootSpecLevel > MaxRow {
		return nil, Zero, newError(RowOverflow, "root level %d exceeds MaxRow (%d)", rootSpecLevel, MaxRow)
	}
	if root.IsOne() {
		return table, Zero, nil
	}

	frontiers := make(map[int]*frontier[pairState[T]])
	topLevel := root.Row()
	frontiers[topLevel] = newFrontier[pairState[T]](pairSpec[T]{s.spec}, topLevel)
	frontiers[topLevel].addOrMerge(pairState[T]{srcID: root, state: rootState}, rootSentinel, 0)

	var rootID NodeId
	arity := s.spec.GetArity()

	for level := topLevel; level >= 1; level-- {
		fr := frontiers[level]
		if fr == nil || fr.Len() == 0 {
			s.spec.DestructLevel(level)
			delete(frontiers, level)
			continue
		}
		s.cfg.progress.StartLevel("subset", level)
		table.ensureRow(level, s.cfg.initialRowCap)

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
			srcNode := s.source.GetNode(fn.state.srcID)
			for br := 0; br < arity; br++ {
				srcChild := srcNode.Child(br)

				var childState T
				s.spec.Copy(&childState, fn.state.state)
				childSpecLevel := s.spec.GetChild(&childState, level, br)

				switch {
				case srcChild.IsZero() || childSpecLevel == 0:
					patchOrSet(table, id, br, Zero)
				case srcChild.IsOne() && childSpecLevel < 0:
					patchOrSet(table, id, br, One)
				case srcChild.IsOne() || childSpecLevel < 0:
					// One side terminates but the other doesn't agree: the
					// combined path is not accepted by both.
					patchOrSet(table, id, br, Zero)
				default:
					if childSpecLevel >= level || srcChild.Row() >= level {
						return nil, Zero, newError(ChildLevelMonotonicity,
							"child level (%d, src row %d) not below parent level %d",
							childSpecLevel, srcChild.Row(), level)
					}
					// Sync down to the lower of the two child levels; the
					// higher one is simply carried along unresolved until
					// the walk catches up to it (matches the descent rule
					// used for level-skipping specs, spec.md §4.5).
					childLevel := childSpecLevel
					if srcChild.Row() < childLevel {
						childLevel = srcChild.Row()
					}
					cf := frontiers[childLevel]
					if cf == nil {
						cf = newFrontier[pairState[T]](pairSpec[T]{s.spec}, childLevel)
						frontiers[childLevel] = cf
					}
					cf.addOrMerge(pairState[T]{srcID: srcChild, state: childState}, id, br)
				}
			}
			s.spec.Destruct(&fn.state.state)
		}

		s.cfg.progress.EndLevel("subset", level, table.RowSize(level))
		s.spec.DestructLevel(level)
		delete(frontiers, level)
	}

	table.RegisterRoot(rootID)
	return table, rootID, nil
}

// copyReachable copies the subtree of src reachable from root into a fresh
// table, unchanged, for the degenerate case of a Spec that accepts
// everything from its very first state (spec.md §4.5 edge case).
func copyReachable(src *NodeTableEntity, root NodeId) (*NodeTableEntity, NodeId, error) {
	dst := NewNodeTableEntity(src.Arity())
	if root.IsTerminal() {
		dst.RegisterRoot(root)
		return dst, root, nil
	}

	remap := make([]map[int]NodeId, src.TopRow()+1)
	for row := range remap {
		remap[row] = make(map[int]NodeId)
	}

	var copy func(id NodeId) NodeId
	copy = func(id NodeId) NodeId {
		if id.IsTerminal() {
			return id
		}
		if existing, ok := remap[id.Row()][id.Col()]; ok {
			return existing
		}
		n := src.GetNode(id)
		rewritten := newNode(n.Arity())
		for b := 0; b < n.Arity(); b++ {
			rewritten.SetChild(b, copy(n.Child(b)))
		}
		dst.ensureRow(id.Row(), 1)
		newID := dst.AddNode(id.Row(), rewritten)
		for b := 0; b < rewritten.Arity(); b++ {
			dst.AddRef(rewritten.Child(b))
		}
		remap[id.Row()][id.Col()] = newID
		return newID
	}

	newRoot := copy(root)
	dst.RegisterRoot(newRoot)
	return dst, newRoot, nil
}

// pairSpec adapts a Spec[T] into a Spec[pairState[T]] so the generic
// frontier machinery (built for Spec[T]) can be reused for the subsetter's
// (source id, spec state) pairs. Only HashCode, EqualTo, and Destruct are
// exercised by frontier/addOrMerge; the rest are never called.
type pairSpec[T any] struct {
	inner Spec[T]
}

func (p pairSpec[T]) GetRoot(state *pairState[T]) int { return 0 }
func (p pairSpec[T]) GetChild(state *pairState[T], level int, b int) int {
	return 0
}
func (p pairSpec[T]) GetArity() int { return p.inner.GetArity() }

func (p pairSpec[T]) Copy(dst *pairState[T], src pairState[T]) {
	dst.srcID = src.srcID
	p.inner.Copy(&dst.state, src.state)
}

func (p pairSpec[T]) Destruct(state *pairState[T]) {
	p.inner.Destruct(&state.state)
}

func (p pairSpec[T]) DestructLevel(level int) {
	p.inner.DestructLevel(level)
}

func (p pairSpec[T]) HashCode(state pairState[T], level int) uint64 {
	return state.srcID.Hash()*271828171 + p.inner.HashCode(state.state, level)
}

func (p pairSpec[T]) EqualTo(a pairState[T], b pairState[T], level int) bool {
	return a.srcID.Equal(b.srcID) && p.inner.EqualTo(a.state, b.state, level)
}
