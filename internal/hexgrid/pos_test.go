package hexgrid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/janpfeifer/hexperc/internal/hexgrid"
)

func TestNeighbours(t *testing.T) {
	pos := Pos{3, -2}
	want := []Pos{{3, -3}, {4, -3}, {4, -2}, {3, -1}, {2, -1}, {2, -2}}
	assert.Equal(t, want, pos.Neighbours())

	// NeighboursIter must list the same cells in the same fixed order.
	var got []Pos
	for neighbor := range pos.NeighboursIter() {
		got = append(got, neighbor)
	}
	assert.Equal(t, want, got)
}

func TestNeighbourSymmetry(t *testing.T) {
	// If b is a neighbor of a, then a must be among b's six neighbors.
	samples := []Pos{{0, 0}, {1, -1}, {-7, 3}, {100, -250}, {-49_999, 49_999}}
	for _, a := range samples {
		for _, b := range a.Neighbours() {
			assert.Containsf(t, b.Neighbours(), a,
				"%s is a neighbor of %s but not vice-versa", b, a)
		}
	}
}

func TestDistance(t *testing.T) {
	assert.Equal(t, int32(0), Origin.Distance(Origin))
	for _, neighbor := range Origin.Neighbours() {
		assert.Equal(t, int32(1), neighbor.Distance(Origin))
	}
	// Two axes moving in the same cube direction add up.
	assert.Equal(t, int32(5), Pos{5, 0}.Distance(Origin))
	assert.Equal(t, int32(5), Pos{0, 5}.Distance(Origin))
	assert.Equal(t, int32(10), Pos{5, 5}.Distance(Origin))
	// q and r in opposite directions partially cancel.
	assert.Equal(t, int32(5), Pos{5, -5}.Distance(Origin))
	assert.Equal(t, int32(7), Pos{-3, -4}.Distance(Pos{0, 0}))
	assert.Equal(t, int32(2), Pos{3, -2}.Distance(Pos{1, -1}))
}

func TestAngle(t *testing.T) {
	// Due east is angle zero.
	assert.InDelta(t, 0, Pos{1, 0}.Angle(), 1e-5)
	assert.InDelta(t, 0, Pos{10, 0}.Angle(), 1e-5)

	// The six neighbors of the origin are 60° apart, sweeping clockwise
	// (screen convention, larger r is further down).
	clockwise := []Pos{{1, 0}, {0, 1}, {-1, 1}, {-1, 0}, {0, -1}, {1, -1}}
	for i, pos := range clockwise {
		assert.InDeltaf(t, float64(i)*3.14159265/3, pos.Angle(), 1e-4,
			"neighbor %s", pos)
	}
}

func TestSortPositions(t *testing.T) {
	positions := []Pos{{1, 1}, {-3, 0}, {2, -5}, {0, 1}, {7, 0}}
	SortPositions(positions)
	assert.Equal(t, []Pos{{2, -5}, {-3, 0}, {7, 0}, {0, 1}, {1, 1}}, positions)
}
