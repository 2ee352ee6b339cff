package points

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostVPsTiers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		postCount int
		want      int
	}{
		{0, 0},
		{1, 1},
		{4, 1},
		{5, 3},
		{9, 3},
		{10, 5},
		{100, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PostVPs(tc.postCount), "postCount=%d", tc.postCount)
	}
}

func TestTotalVPs(t *testing.T) {
	t.Parallel()

	// Baseline-only and tier cases with no high-rated listings.
	assert.Equal(t, 1, TotalVPs(0, 0))
	assert.Equal(t, 2, TotalVPs(3, 0))
	assert.Equal(t, 4, TotalVPs(7, 0))
	assert.Equal(t, 6, TotalVPs(12, 0))

	// One point per high-rated listing on top.
	assert.Equal(t, 4, TotalVPs(3, 2))
	assert.Equal(t, 1, TotalVPs(0, 0))

	// Negative inputs clamp to zero rather than corrupting the baseline.
	assert.Equal(t, 1, TotalVPs(-3, -1))
}

func TestTotalVPsDeterministic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		assert.Equal(t, TotalVPs(7, 3), TotalVPs(7, 3))
	}
}

func TestMilestoneDeltaTelescopes(t *testing.T) {
	t.Parallel()

	// Applying every transition delta from 0..n must land exactly on the
	// from-scratch total, whatever n is.
	for n := 0; n <= 25; n++ {
		total := BaselineVPs
		for c := 1; c <= n; c++ {
			total += MilestoneDelta(c-1, c)
		}
		assert.Equal(t, TotalVPs(n, 0), total, "n=%d", n)
	}
}

func TestMilestoneDeltaBoundaries(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, MilestoneDelta(0, 1))
	assert.Equal(t, 0, MilestoneDelta(1, 2))
	assert.Equal(t, 0, MilestoneDelta(3, 4))
	assert.Equal(t, 2, MilestoneDelta(4, 5))
	assert.Equal(t, 0, MilestoneDelta(5, 6))
	assert.Equal(t, 2, MilestoneDelta(9, 10))
	assert.Equal(t, 0, MilestoneDelta(10, 11))
}
