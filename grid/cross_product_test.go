package grid_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nimbusrv/rv/grid"
)

type pair struct{ x, y int }

func collect(x, y grid.Range) []pair {
	var out []pair
	for xv, yv := range grid.CrossProduct(x, y) {
		out = append(out, pair{xv, yv})
	}

	return out
}

func TestCrossProduct5x5(t *testing.T) {
	got := collect(grid.IndexRange(0, 5), grid.IndexRange(0, 5))
	require.Len(t, got, 25)

	want := []pair{
		{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0},
		{0, 1}, {1, 1}, {2, 1}, {3, 1}, {4, 1},
		{0, 2}, {1, 2}, {2, 2}, {3, 2}, {4, 2},
		{0, 3}, {1, 3}, {2, 3}, {3, 3}, {4, 3},
		{0, 4}, {1, 4}, {2, 4}, {3, 4}, {4, 4},
	}
	require.Equal(t, want, got)
}

func TestCrossProductCount(t *testing.T) {
	for _, tc := range []struct{ a, b int }{
		{3, 7}, {1, 1}, {11, 12}, {100, 1},
	} {
		got := collect(grid.IndexRange(0, tc.a), grid.IndexRange(0, tc.b))
		require.Len(t, got, tc.a*tc.b)
		require.Equal(t, pair{0, 0}, got[0])
		require.Equal(t, pair{tc.a - 1, tc.b - 1}, got[len(got)-1])

		for i := 0; i < tc.a; i++ {
			require.Equal(t, pair{i, 0}, got[i])
		}
	}
}

func TestCrossProductEmpty(t *testing.T) {
	require.Empty(t, collect(grid.IndexRange(0, 0), grid.IndexRange(0, 5)))
	require.Empty(t, collect(grid.IndexRange(0, 5), grid.IndexRange(0, 0)))
	require.Empty(t, collect(grid.IndexRange(0, 0), grid.IndexRange(0, 0)))
}

func TestCrossProductEarlyBreak(t *testing.T) {
	var seen []pair
	for xv, yv := range grid.CrossProduct(grid.IndexRange(0, 5), grid.IndexRange(0, 5)) {
		seen = append(seen, pair{xv, yv})
		if len(seen) == 3 {
			break
		}
	}
	require.Equal(t, []pair{{0, 0}, {1, 0}, {2, 0}}, seen)
}
