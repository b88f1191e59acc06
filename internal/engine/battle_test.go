package engine

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janpfeifer/hexperc/internal/hexgrid"
	"github.com/janpfeifer/hexperc/internal/hexgrid/gridtest"
)

func newTestBattle(bits hexgrid.BitSource, escapeDistance int32) *battleRun {
	grid := hexgrid.NewGrid(bits)
	white, black := hexgrid.Pos{0, 0}, hexgrid.Pos{1, 0}
	grid.Set(white, hexgrid.White)
	grid.Set(black, hexgrid.Black)
	return &battleRun{
		grid:           grid,
		whiteOrigin:    white,
		blackOrigin:    black,
		escapeDistance: escapeDistance,
		trappedBudget:  DefaultTrappedBudget,
		pacer:          newPacer(nil, nil, 1),
		best:           &atomic.Int32{},
	}
}

func TestFrontierPartition(t *testing.T) {
	b := newTestBattle(gridtest.ConstBits(true), 100)
	f := b.classifyFrontiers()

	toSet := func(cells []hexgrid.Pos) map[hexgrid.Pos]bool {
		s := make(map[hexgrid.Pos]bool, len(cells))
		for _, pos := range cells {
			require.Falsef(t, s[pos], "cell %s listed twice", pos)
			s[pos] = true
		}
		return s
	}
	boundary := toSet(f.boundary)
	whiteOnly := toSet(f.whiteOnly)
	blackOnly := toSet(f.blackOnly)

	// The two common unset neighbors of the adjacent origins are contested.
	assert.Equal(t, map[hexgrid.Pos]bool{{1, -1}: true, {0, 1}: true}, boundary)
	assert.Equal(t, map[hexgrid.Pos]bool{{0, -1}: true, {-1, 1}: true, {-1, 0}: true}, whiteOnly)
	assert.Equal(t, map[hexgrid.Pos]bool{{2, -1}: true, {2, 0}: true, {1, 1}: true}, blackOnly)

	// The classes are disjoint, and together cover every unset cell
	// adjacent to a colored one.
	for pos := range boundary {
		assert.False(t, whiteOnly[pos] || blackOnly[pos])
	}
	for pos := range whiteOnly {
		assert.False(t, blackOnly[pos])
	}
	for pos, color := range b.grid.All() {
		_ = color
		for neighbor := range pos.NeighboursIter() {
			if b.grid.Has(neighbor) {
				continue
			}
			assert.Truef(t, boundary[neighbor] || whiteOnly[neighbor] || blackOnly[neighbor],
				"unset cell %s adjacent to colored %s is unclassified", neighbor, pos)
		}
	}
}

func TestPickBoundaryTieBreak(t *testing.T) {
	// Equal hex distance: the cell with the strictly greater clockwise
	// angle from due east wins.
	assert.Equal(t, hexgrid.Pos{0, -1},
		pickBoundary([]hexgrid.Pos{{0, 1}, {0, -1}}))
	assert.Equal(t, hexgrid.Pos{0, -1},
		pickBoundary([]hexgrid.Pos{{0, -1}, {0, 1}}))

	// Among all six neighbors of the origin, (1,-1) is the most clockwise.
	assert.Equal(t, hexgrid.Pos{1, -1}, pickBoundary(hexgrid.Origin.Neighbours()))

	// Distance dominates the angle.
	assert.Equal(t, hexgrid.Pos{2, 0},
		pickBoundary([]hexgrid.Pos{{0, -1}, {2, 0}}))
}

func TestBattleBlackSweep(t *testing.T) {
	// Every contested coin flip lands black: white's single-cell region
	// gets sealed in and black wins at contested distance 1.
	b := newTestBattle(gridtest.ConstBits(false), 100)
	outcome := b.run(context.Background())

	assert.Equal(t, ResultBlackWins, outcome.Result)
	assert.Equal(t, ModeBattle, outcome.Mode)
	assert.Equal(t, int32(1), outcome.Distance)
	// All contested cells are neighbors of the white origin; sealing it
	// takes at most its five unset neighbors.
	assert.LessOrEqual(t, outcome.Steps, 5)
}

func TestBattleWhiteSweep(t *testing.T) {
	// Symmetric sweep: black's origin sits at (1,0), so some of its sealed
	// neighbors are at hex distance 2 from the lattice origin.
	b := newTestBattle(gridtest.ConstBits(true), 100)
	outcome := b.run(context.Background())

	assert.Equal(t, ResultWhiteWins, outcome.Result)
	assert.Equal(t, int32(2), outcome.Distance)
	assert.LessOrEqual(t, outcome.Steps, 5)
}

func TestBattleHorizonUnresolved(t *testing.T) {
	// An escape distance of 1 is reached by the very first contested cell:
	// neither side provably wins within the horizon.
	b := newTestBattle(gridtest.ConstBits(false), 1)
	outcome := b.run(context.Background())

	assert.Equal(t, ResultUnresolved, outcome.Result)
	assert.Equal(t, int32(1), outcome.Distance)
	assert.Equal(t, 1, outcome.Steps)
}

func TestBattleDeterministic(t *testing.T) {
	// Same seed, same outcome, flip for flip.
	run := func() Outcome {
		b := newTestBattle(hexgrid.NewBitSource(7), 50)
		return b.run(context.Background())
	}
	first := run()
	for range 3 {
		assert.Equal(t, first, run())
	}
}
