// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

import "sync"

// parallelFrontier is the concurrent counterpart of frontier: instead of one
// map-backed uniqueTable, states hash into K buckets, each bucket guarded by
// its own mutex, so that goroutines only contend when their states hash into
// the same bucket (spec.md §4.5's parallel-hash discipline; K =
// primeGte(10*workers) mirrors the original framework's bucket sizing
// heuristic).
type parallelFrontier[T any] struct {
	spec    Spec[T]
	level   int
	k       int
	buckets [][]*specFrontierNode[T]
	mu      []sync.Mutex
}

func newParallelFrontier[T any](spec Spec[T], level int, k int) *parallelFrontier[T] {
	return &parallelFrontier[T]{
		spec:    spec,
		level:   level,
		k:       k,
		buckets: make([][]*specFrontierNode[T], k),
		mu:      make([]sync.Mutex, k),
	}
}

func (pf *parallelFrontier[T]) bucketOf(state T) int {
	h := pf.spec.HashCode(state, pf.level)
	return int(h % uint64(pf.k))
}

// addOrMerge is safe to call concurrently from many goroutines: contention
// is limited to the single bucket a state hashes into.
func (pf *parallelFrontier[T]) addOrMerge(state T, parent NodeId, branch int) {
	b := pf.bucketOf(state)
	pf.mu[b].Lock()
	defer pf.mu[b].Unlock()

	for _, n := range pf.buckets[b] {
		if pf.spec.EqualTo(n.state, state, pf.level) {
			n.patches = append(n.patches, patchRef{parent: parent, branch: branch})
			if m, ok := pf.spec.(Merger[T]); ok {
				m.MergeStates(&n.state, state)
			} else {
				pf.spec.Destruct(&state)
			}
			return
		}
	}
	pf.buckets[b] = append(pf.buckets[b], &specFrontierNode[T]{
		state:   state,
		patches: []patchRef{{parent: parent, branch: branch}},
	})
}

// len reports the total number of distinct states across every bucket.
func (pf *parallelFrontier[T]) len() int {
	n := 0
	for _, bucket := range pf.buckets {
		n += len(bucket)
	}
	return n
}

// flatten lists every frontier node across all buckets, in bucket order.
// Within a bucket, nodes appear in the order goroutines added them, so with
// more than one worker the resulting column order can differ between runs.
func (pf *parallelFrontier[T]) flatten() []*specFrontierNode[T] {
	out := make([]*specFrontierNode[T], 0, pf.len())
	for _, bucket := range pf.buckets {
		out = append(out, bucket...)
	}
	return out
}

// buildParallel is the parallel counterpart of Builder.Build: it follows
// the same top-down, level-by-level structure, but for each level splits
// the frontier's node-materialization work (phase 1: parallel-hash, folded
// into parallelFrontier.addOrMerge above) and its child-expansion work
// (phase 3: parallel-emit) across cfg.workers goroutines, with a
// sync.WaitGroup barrier at the end of each phase (spec.md §4.5, §5). The
// serial bucket-count/column-assignment step (phase 2) is the ids
// assignment loop below, which must run single-threaded because it
// determines every node's final column.
func (b *Builder[T]) buildParallel() (*NodeTableEntity, NodeId, error) {
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

	workers := b.cfg.workers
	k := primeGte(10 * workers)
	arity := b.spec.GetArity()

	frontiers := make(map[int]*parallelFrontier[T])
	rootFrontier := newParallelFrontier(b.spec, rootLevel, k)
	rootFrontier.addOrMerge(rootState, rootSentinel, 0)
	frontiers[rootLevel] = rootFrontier

	var rootID NodeId

	for level := rootLevel; level >= 1; level-- {
		fr := frontiers[level]
		if fr == nil || fr.len() == 0 {
			b.spec.DestructLevel(level)
			delete(frontiers, level)
			continue
		}
		b.cfg.progress.StartLevel("build", level)
		table.ensureRow(level, b.cfg.initialRowCap)

		nodes := fr.flatten()
		ids := make([]NodeId, len(nodes))
		// Phase 2 (serial prefix sum/columns): assign every canonical node
		// its column and patch the parent branches that reference it. Must
		// be serial: it is the one step that picks final column order.
		for i, fn := range nodes {
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

		// Phase 3 (parallel emit/expand): each worker expands a contiguous
		// shard of the level's canonical nodes, calling GetChild (the part
		// of a Spec actually worth parallelizing) and routing results into
		// the next frontier's bucket-owned slices.
		nextFrontiers := make(map[int]*parallelFrontier[T])
		var nfMu sync.Mutex
		getOrCreateNext := func(childLevel int) *parallelFrontier[T] {
			nfMu.Lock()
			defer nfMu.Unlock()
			cf, ok := nextFrontiers[childLevel]
			if !ok {
				// Reuse a frontier already scheduled by a level-skipping
				// branch of an earlier level, so its states are kept.
				if cf, ok = frontiers[childLevel]; !ok {
					cf = newParallelFrontier(b.spec, childLevel, k)
				}
				nextFrontiers[childLevel] = cf
			}
			return cf
		}

		var wg sync.WaitGroup
		var firstErr error
		var errMu sync.Mutex
		shard := (len(nodes) + workers - 1) / workers
		if shard < 1 {
			shard = 1
		}
		for start := 0; start < len(nodes); start += shard {
			end := start + shard
			if end > len(nodes) {
				end = len(nodes)
			}
			wg.Add(1)
			go func(start, end int) {
				defer wg.Done()
				for i := start; i < end; i++ {
					fn := nodes[i]
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
								errMu.Lock()
								if firstErr == nil {
									firstErr = newError(ChildLevelMonotonicity,
										"child level %d is not below parent level %d", childLevel, level)
								}
								errMu.Unlock()
								continue
							}
							getOrCreateNext(childLevel).addOrMerge(childState, id, br)
						}
					}
					b.spec.Destruct(&fn.state)
				}
			}(start, end)
		}
		wg.Wait()

		if firstErr != nil {
			return nil, Zero, firstErr
		}

		b.cfg.progress.EndLevel("build", level, table.RowSize(level))
		b.spec.DestructLevel(level)
		delete(frontiers, level)
		for lvl, cf := range nextFrontiers {
			frontiers[lvl] = cf
		}
	}

	table.RegisterRoot(rootID)
	return table, rootID, nil
}
