package quad

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKernel(t *testing.T) {
	require.InDelta(t, 4.0, Kernel(0), 1e-15)
	require.InDelta(t, 2.0, Kernel(1), 1e-15)
}

func TestOwnedIndicesPartition(t *testing.T) {
	for _, n := range []int{1, 2, 7, 100, 1000} {
		for _, size := range []int{1, 2, 3, 4, 5, 16} {
			t.Run(fmt.Sprintf("n=%d_size=%d", n, size), func(t *testing.T) {
				seen := make(map[int]int)
				for rank := 0; rank < size; rank++ {
					for _, i := range OwnedIndices(n, rank, size) {
						seen[i]++
					}
				}
				require.Len(t, seen, n)
				for i := 1; i <= n; i++ {
					require.Equal(t, 1, seen[i], "index %d must be owned exactly once", i)
				}
			})
		}
	}
}

func TestPartialSumsMatchSingleRank(t *testing.T) {
	const n = 1000
	sequential := PartialSum(n, 0, 1)

	for _, size := range []int{2, 3, 4, 7} {
		total := 0.0
		for rank := 0; rank < size; rank++ {
			total += PartialSum(n, rank, size)
		}
		require.InDelta(t, sequential, total, 1e-9, "size %d", size)
	}
}

func TestSingleRankAccuracy(t *testing.T) {
	got := PartialSum(100000, 0, 1)
	require.InDelta(t, math.Pi, got, 0.5e-4)
}

func TestRanksWithoutIndices(t *testing.T) {
	// n=2 with size 5: ranks 2..4 own nothing and contribute exactly zero.
	for rank := 2; rank < 5; rank++ {
		require.Empty(t, OwnedIndices(2, rank, 5))
		require.Zero(t, PartialSum(2, rank, 5))
	}
	total := 0.0
	for rank := 0; rank < 5; rank++ {
		total += PartialSum(2, rank, 5)
	}
	require.InDelta(t, PartialSum(2, 0, 1), total, 1e-12)
}

func TestNegativeIntervals(t *testing.T) {
	// Not validated upstream: a negative granularity yields empty loops.
	require.Empty(t, OwnedIndices(-5, 0, 1))
	require.Zero(t, PartialSum(-5, 0, 1))
}
