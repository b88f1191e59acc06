// Package gridtest provides helper functions to create tests using hexperc grids.
package gridtest

import (
	"github.com/gomlx/exceptions"

	. "github.com/janpfeifer/hexperc/internal/hexgrid"
)

// ConstBits is a BitSource that always returns the same bit: true colors
// every lazily examined cell White, false colors everything Black.
type ConstBits bool

// Bit implements hexgrid.BitSource.
func (c ConstBits) Bit() bool {
	return bool(c)
}

// ScriptBits replays a fixed sequence of bits. It panics when the script is
// exhausted: a test drawing more bits than it scripted is broken.
type ScriptBits struct {
	bits []bool
	next int
}

// NewScriptBits returns a BitSource that replays the given bits in order.
func NewScriptBits(bits ...bool) *ScriptBits {
	return &ScriptBits{bits: bits}
}

// Bit implements hexgrid.BitSource.
func (s *ScriptBits) Bit() bool {
	if s.next >= len(s.bits) {
		exceptions.Panicf("gridtest: ScriptBits exhausted after %d bits", len(s.bits))
	}
	bit := s.bits[s.next]
	s.next++
	return bit
}

// Drawn returns how many bits have been consumed so far.
func (s *ScriptBits) Drawn() int {
	return s.next
}

// CellOnGrid represents a pre-colored cell of a test layout.
type CellOnGrid struct {
	Pos   Pos
	Color Color
}

// BuildGrid creates a grid drawing from bits, with the layout cells already
// colored. Layout cells must be distinct, since colors are set-once.
func BuildGrid(bits BitSource, layout []CellOnGrid) *Grid {
	g := NewGrid(bits)
	for _, cell := range layout {
		g.Set(cell.Pos, cell.Color)
	}
	return g
}

// BuildRing colors the full ring of the 6 neighbors of center with the given
// color on an existing grid. Handy for sealing a cell in.
func BuildRing(g *Grid, center Pos, color Color) {
	for neighbor := range center.NeighboursIter() {
		g.Set(neighbor, color)
	}
}
