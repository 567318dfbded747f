// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func binomial(n, k int) *big.Int {
	return new(big.Int).Binomial(int64(n), int64(k))
}

func TestBuildDeterminism(t *testing.T) {
	spec := newCombinationSpec(8, 3)
	d1, err := Build[int](spec)
	require.NoError(t, err)
	d2, err := Build[int](newCombinationSpec(8, 3))
	require.NoError(t, err)

	require.Equal(t, d1.Cardinality(true), d2.Cardinality(true))
	require.Equal(t, len(d1.Solutions()), len(d2.Solutions()))
}

func TestCombinationIdentity(t *testing.T) {
	for n := 1; n <= 8; n++ {
		for k := 0; k <= n; k++ {
			d, err := Build[int](newCombinationSpec(n, k))
			require.NoError(t, err)
			want := binomial(n, k)
			require.Equal(t, want, d.Cardinality(true), "C(%d,%d)", n, k)
		}
	}
}

func TestSizeConstraintLaw(t *testing.T) {
	n, lower, upper := 10, 3, 6
	d, err := Build[int](&sizeConstraintSpec{n: n, constraint: intRange{lower: lower, upper: upper}})
	require.NoError(t, err)

	want := big.NewInt(0)
	for k := lower; k <= upper; k++ {
		want.Add(want, binomial(n, k))
	}
	require.Equal(t, want, d.Cardinality(true))
}

func TestUniversalSpecCardinality(t *testing.T) {
	n := 12
	d, err := Build[struct{}](universalSpec(n))
	require.NoError(t, err)

	want := new(big.Int).Exp(big.NewInt(2), big.NewInt(int64(n)), nil)
	require.Equal(t, want, d.Cardinality(true))
}

func TestReductionIdempotence(t *testing.T) {
	d, err := Build[int](newCombinationSpec(10, 4))
	require.NoError(t, err)

	once := d.Reduce(ZDD)
	twice := once.Reduce(ZDD)

	require.Equal(t, once.Stats().NodeCount, twice.Stats().NodeCount)
	require.Equal(t, once.Cardinality(false), twice.Cardinality(false))
}

func TestBDDZDDRoundTrip(t *testing.T) {
	n := 3
	clauses := []clause{
		{literal: map[int]int{3: 1, 2: 1, 1: -1}},
		{literal: map[int]int{3: -1, 1: 1}},
	}
	d, err := Build[pendingMask](newBooleanExprSpec(n, clauses))
	require.NoError(t, err)

	original := d.Reduce(BDD)
	roundTripped := original.ToZdd(n).ToBdd(n).Reduce(BDD)

	require.Equal(t, original.Cardinality(true), roundTripped.Cardinality(true))
	require.ElementsMatch(t, original.Solutions(), roundTripped.Solutions(),
		"bdd_to_zdd followed by zdd_to_bdd must yield the original reduced BDD")
}

func TestBDDZDDCardinalityAgreement(t *testing.T) {
	clauses := []clause{
		{literal: map[int]int{3: 1, 2: 1, 1: -1}},
		{literal: map[int]int{3: -1, 1: 1}},
	}
	d, err := Build[pendingMask](newBooleanExprSpec(3, clauses))
	require.NoError(t, err)

	bddCount := d.Reduce(BDD).Cardinality(true)
	zddCount := d.Reduce(ZDD).Cardinality(false)

	require.Equal(t, bddCount, zddCount,
		"BDD (weighted) and ZDD (unweighted) cardinality must agree on the same satisfying-assignment count")
}

func TestParallelEquivalence(t *testing.T) {
	baseline, err := Build[int](newCombinationSpec(9, 4), Workers(1))
	require.NoError(t, err)
	want := baseline.Cardinality(true)

	for _, workers := range []int{1, 2, 4} {
		d, err := Build[int](newCombinationSpec(9, 4), Workers(workers))
		require.NoError(t, err)
		require.Equal(t, want, d.Cardinality(true), "workers=%d", workers)
	}
}

func TestGridSimplePathSmall(t *testing.T) {
	// A 2x2 grid of vertices is a 4-cycle; exactly two simple paths join
	// opposite corners (clockwise and counterclockwise).
	d, err := Build[pathState](newGridPathSpec(2))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(2), d.Cardinality(false))
	require.Len(t, d.Solutions(), 2)
}

func TestSubsetSizeConstraint(t *testing.T) {
	// Subsetting the universal 10-ZDD by SizeConstraint(10,[3,5]) runs the
	// subsetter's lock-step descent against a non-trivial existing DAG, not
	// just a pass-through; both sides step down one level at a time here.
	universal, err := Build[struct{}](universalSpec(10))
	require.NoError(t, err)

	constrained, err := Subset[int](universal, &sizeConstraintSpec{n: 10, constraint: intRange{lower: 3, upper: 5}})
	require.NoError(t, err)

	want := big.NewInt(0)
	for k := 3; k <= 5; k++ {
		want.Add(want, binomial(10, k))
	}
	require.Equal(t, want, constrained.Reduce(ZDD).Cardinality(false))
}

func TestGridSimplePath4x4WithWorkers(t *testing.T) {
	for _, workers := range []int{1, 2, 4} {
		d, err := Build[pathState](newGridPathSpec(4), Workers(workers))
		require.NoError(t, err)
		require.Equal(t, big.NewInt(184), d.Cardinality(false), "workers=%d", workers)
	}
}

func TestGridSimplePathTrivial(t *testing.T) {
	// A single-vertex grid: start == end, the empty edge set is the one
	// and only solution.
	d, err := Build[pathState](newGridPathSpec(1))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1), d.Cardinality(false))
}

func TestSweepReclaimsDeadNodes(t *testing.T) {
	d, err := Build[int](newCombinationSpec(10, 5), DisableSweep())
	require.NoError(t, err)

	reduced := d.Reduce(ZDD)
	before := reduced.Stats().NodeCount
	swept := reduced.Sweep()
	require.LessOrEqual(t, swept.Stats().NodeCount, before)
	require.Equal(t, reduced.Cardinality(false), swept.Cardinality(false))
}

func TestExistentialQuantificationPreservesOriginal(t *testing.T) {
	d, err := Build[int](newCombinationSpec(6, 2))
	require.NoError(t, err)
	before := d.Cardinality(true)

	// Quantify with a spec that simply accepts everything unconstrained:
	// Exist should not mutate d, and should return an equivalent diagram.
	quantified, err := Exist[struct{}](d, universalSpec(6), ZDD)
	require.NoError(t, err)

	require.Equal(t, before, d.Cardinality(true), "original diagram must remain usable after Exist")
	require.NotNil(t, quantified)
}
