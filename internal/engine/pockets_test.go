package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/janpfeifer/hexperc/internal/engine"
	"github.com/janpfeifer/hexperc/internal/hexgrid"
	"github.com/janpfeifer/hexperc/internal/hexgrid/gridtest"
)

// sealHole colors hostile every uncolored neighbor of the given unset cells,
// enclosing them completely.
func sealHole(g *hexgrid.Grid, hole ...hexgrid.Pos) {
	inHole := make(map[hexgrid.Pos]bool, len(hole))
	for _, pos := range hole {
		inHole[pos] = true
	}
	for _, pos := range hole {
		for neighbor := range pos.NeighboursIter() {
			if inHole[neighbor] || g.Has(neighbor) {
				continue
			}
			g.Set(neighbor, hexgrid.Black)
		}
	}
}

func TestPocketsSingleCell(t *testing.T) {
	g := hexgrid.NewGrid(gridtest.ConstBits(true))
	sealHole(g, hexgrid.Pos{0, 0})

	// One pocket of size 1; the unbounded area outside the ring is open
	// space, not a pocket.
	assert.Equal(t, []int{1}, Pockets(g, 50))
}

func TestPocketsSizesSorted(t *testing.T) {
	g := hexgrid.NewGrid(gridtest.ConstBits(true))
	// A two-cell pocket near the origin and a one-cell pocket further out.
	sealHole(g, hexgrid.Pos{0, 0}, hexgrid.Pos{1, 0})
	sealHole(g, hexgrid.Pos{20, 0})

	// Each unset cell belongs to at most one component: the two-cell pocket
	// is reachable from many hostile seeds but counted once.
	assert.Equal(t, []int{1, 2}, Pockets(g, 50))
}

func TestPocketsExcludeFriendlyTouch(t *testing.T) {
	// A sealed cell whose wall contains one friendly cell: enclosed, but
	// not a pocket.
	g := hexgrid.NewGrid(gridtest.ConstBits(true))
	neighbors := hexgrid.Origin.Neighbours()
	g.Set(neighbors[0], hexgrid.White)
	for _, pos := range neighbors[1:] {
		g.Set(pos, hexgrid.Black)
	}

	assert.Empty(t, Pockets(g, 50))
}

func TestPocketsSizeBound(t *testing.T) {
	g := hexgrid.NewGrid(gridtest.ConstBits(true))
	sealHole(g, hexgrid.Pos{0, 0}, hexgrid.Pos{1, 0})

	// With the bound below the component size, the enclosure counts as
	// open space.
	assert.Empty(t, Pockets(g, 1))
	assert.Equal(t, []int{2}, Pockets(g, 2))
}

func TestPocketsNeverAssigns(t *testing.T) {
	g := hexgrid.NewGrid(gridtest.ConstBits(true))
	sealHole(g, hexgrid.Pos{0, 0})
	before := g.Len()
	Pockets(g, 50)
	assert.Equal(t, before, g.Len())
}
