package hexgrid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/janpfeifer/hexperc/internal/hexgrid"
	"github.com/janpfeifer/hexperc/internal/hexgrid/gridtest"
)

func TestGetOrAssignStability(t *testing.T) {
	g := NewGrid(gridtest.NewScriptBits(true, false))

	// First touch draws exactly one bit and grows the grid by one entry.
	pos := Pos{2, -3}
	first := g.GetOrAssign(pos)
	assert.Equal(t, White, first)
	assert.Equal(t, 1, g.Len())

	// Second touch returns the frozen color and doesn't grow the grid.
	assert.Equal(t, first, g.GetOrAssign(pos))
	assert.Equal(t, 1, g.Len())

	// The next cell consumes the next scripted bit.
	assert.Equal(t, Black, g.GetOrAssign(Pos{0, 0}))
	assert.Equal(t, 2, g.Len())
}

func TestSetOriginOnce(t *testing.T) {
	g := NewGrid(gridtest.ConstBits(true))
	g.Set(Pos{0, 0}, White)
	color, found := g.ColorAt(Pos{0, 0})
	assert.True(t, found)
	assert.Equal(t, White, color)

	// Re-coloring any already-set cell is a logic error.
	require.Panics(t, func() { g.Set(Pos{0, 0}, Black) })
	require.Panics(t, func() { g.Set(Pos{0, 0}, White) })
	require.Panics(t, func() { g.Set(Pos{1, 1}, NoColor) })

	// Same for cells colored lazily.
	g.GetOrAssign(Pos{5, 5})
	require.Panics(t, func() { g.Set(Pos{5, 5}, Black) })
}

func TestSnapshot(t *testing.T) {
	g := gridtest.BuildGrid(gridtest.ConstBits(false), []gridtest.CellOnGrid{
		{Pos: Pos{0, 0}, Color: White},
		{Pos: Pos{1, 0}, Color: Black},
		{Pos: Pos{-3, 7}, Color: White},
	})
	got := make(map[Pos]Color)
	for pos, color := range g.All() {
		got[pos] = color
	}
	assert.Equal(t, map[Pos]Color{
		{0, 0}:  White,
		{1, 0}:  Black,
		{-3, 7}: White,
	}, got)

	assert.True(t, g.Has(Pos{1, 0}))
	assert.False(t, g.Has(Pos{1, 1}))
	_, found := g.ColorAt(Pos{1, 1})
	assert.False(t, found)
}

func TestColorOpponent(t *testing.T) {
	assert.Equal(t, Black, White.Opponent())
	assert.Equal(t, White, Black.Opponent())
	require.Panics(t, func() { _ = NoColor.Opponent() })
	assert.Equal(t, "White", White.String())
	assert.Equal(t, "Black", Black.String())
}

func TestBitSourceDeterminism(t *testing.T) {
	// The same seed must reproduce the same coloring sequence.
	g1 := NewGrid(NewBitSource(42))
	g2 := NewGrid(NewBitSource(42))
	for q := int32(0); q < 100; q++ {
		pos := Pos{q, -q}
		assert.Equal(t, g1.GetOrAssign(pos), g2.GetOrAssign(pos))
	}
}
