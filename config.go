// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

// _DEFAULTSWEEPALPHA is the default dead-node ratio (spec.md §4.8) that
// triggers a sweep of a row once its dead-node count reaches it.
const _DEFAULTSWEEPALPHA float64 = 0.125

// _DEFAULTINITIALROWCAP is the default capacity hint used when a row is
// first initialized.
const _DEFAULTINITIALROWCAP int = 64

// configs stores the tunable parameters of a Builder/Subsetter/Reducer run.
type configs struct {
	workers        int     // number of worker goroutines for the parallel builder/subsetter
	initialRowCap  int     // capacity hint when a row is first initialized
	sweepAlpha     float64 // dead-node ratio that triggers a sweep
	sweepDisabled  bool    // disable automatic sweeping entirely
	progress       ProgressReporter
}

func makeconfigs() *configs {
	return &configs{
		workers:       1,
		initialRowCap: _DEFAULTINITIALROWCAP,
		sweepAlpha:    _DEFAULTSWEEPALPHA,
		progress:      noopProgress{},
	}
}

// Workers is a configuration option. Used as a parameter to NewBuilder, it
// sets the number of worker goroutines used by the parallel construction
// algorithm (spec.md §4.5). The default value is 1, with which Build runs
// the sequential algorithm; any value above 1 selects the parallel one.
// The Subsetter always runs sequentially and ignores this option.
func Workers(n int) func(*configs) {
	return func(c *configs) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// InitialRows is a configuration option. Used as a parameter to NewBuilder,
// it sets a preferred initial capacity for a node table row. The default
// value is small since rows are resized automatically as nodes are emitted.
func InitialRows(size int) func(*configs) {
	return func(c *configs) {
		if size > 0 {
			c.initialRowCap = size
		}
	}
}

// SweepThreshold is a configuration option. Used as a parameter to Build or
// Subset, it sets the dead-node ratio (spec.md §4.8) that triggers a sweep
// once the whole construction is completed: if any row's ratio reaches it,
// the entire table is swept. A node counts as dead when no node and no root
// references it; a node whose branches all point to Zero is not counted as
// dead for that reason. The default value is 0.125 (one eighth of the row).
func SweepThreshold(alpha float64) func(*configs) {
	return func(c *configs) {
		if alpha > 0 {
			c.sweepAlpha = alpha
		}
	}
}

// DisableSweep is a configuration option that turns off the automatic
// sweeper entirely, leaving garbage collection to be invoked explicitly.
func DisableSweep() func(*configs) {
	return func(c *configs) {
		c.sweepDisabled = true
	}
}

// Progress is a configuration option that installs a ProgressReporter to
// receive phase-level callbacks during a build/reduce/subset/sweep. The
// default is a no-op reporter; see progress.go for an OpenTelemetry-backed
// implementation.
func Progress(p ProgressReporter) func(*configs) {
	return func(c *configs) {
		if p != nil {
			c.progress = p
		}
	}
}
