// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package tdzdd implements the core of a top-down/breadth-first decision
diagram manipulation framework. Rather than building a Binary Decision
Diagram one Boolean operator at a time, as a classical BDD package does, this
framework materializes a large labeled decision graph level by level from a
client-supplied Spec: a small state machine that tells the framework, for
each live state and each of its outgoing branches, what the next state and
next level are (or that the branch should terminate in the false or true
constant).

Basics

A decision diagram built by this package is a shared, reduced, canonical
multi-rooted DAG held in a NodeTableEntity. Nodes live in per-level rows and
are addressed by a packed NodeId (an encoded (row, col) pair), never by
pointer, so that growing a row never invalidates previously returned ids.
Two special ids, Zero and One, denote the false and true terminals.

A Builder pulls a root state out of a Spec and expands the frontier of live
states level by level, deduplicating states that hash and compare equal at
the same level into a single canonical node (see builder.go). A Subsetter
does the same expansion but walks an existing diagram and a Spec in lock
step, descending both simultaneously (see subsetter.go). A Reducer then
canonicalizes the resulting table bottom-up under one of three rules: QDD
(merge only), BDD (also collapse nodes whose branches all agree), or ZDD
(also collapse nodes whose non-zero branches all point to Zero); see
reducer.go. A Sweeper reclaims rows whose dead-node ratio crosses a
threshold (see sweeper.go).

Diagram is the user-facing façade tying these pieces together: construct,
reduce, subset, evaluate, and iterate over a diagram built from a Spec (see
diagram.go).

Parallel construction

The Builder has a parallel variant (see builder_parallel.go) that
partitions each level's frontier across a configurable number of worker
goroutines and a larger number of hash buckets, following a strict
parallel-hash / serial-prefix-sum / parallel-emit discipline with one
barrier per level. The Subsetter has no parallel variant and always runs
sequentially. With more than one worker, the parallel Builder calls Copy,
GetChild and HashCode concurrently on distinct State values, so a Spec must
be safe to call that way.

Automatic memory management

The library is written in pure Go, without the need for CGo; its only
third-party dependencies are OpenTelemetry (progress.go) and the Prometheus
client library (metrics.go). Like the teacher library this one grew out of, we piggyback on
the garbage collection mechanism offered by our host language: a client's
State values, once superseded, are simply dropped and collected rather than
explicitly freed from a byte arena. The only place a Spec needs to do manual
cleanup is in per-level caches it keeps for its own bookkeeping, which is
what DestructLevel is for.
*/
package tdzdd
