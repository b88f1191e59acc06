package hexgrid

import (
	"iter"
	"math/rand/v2"

	"github.com/gomlx/exceptions"
)

// Color of a cell. Cells start out unset (NoColor) and are assigned White or
// Black at most once per run.
type Color uint8

const (
	NoColor Color = iota
	White         // friendly
	Black         // hostile
	lastColor
)

var colorNames = [lastColor]string{"None", "White", "Black"}

// String returns the color name.
func (c Color) String() string {
	return colorNames[c]
}

// Opponent returns the other player's color.
func (c Color) Opponent() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	exceptions.Panicf("hexgrid: Color(%d) has no opponent", c)
	return NoColor
}

// BitSource yields independent fair bits. It is injected into the Grid so
// tests can fix the coloring sequence and replay runs deterministically.
type BitSource interface {
	// Bit draws one fair bit.
	Bit() bool
}

// pcgBits implements BitSource on top of math/rand/v2's PCG.
type pcgBits struct {
	rng *rand.Rand
}

func (p pcgBits) Bit() bool {
	return p.rng.Uint64()&1 == 1
}

// NewBitSource returns the default fair BitSource for the given seed.
func NewBitSource(seed uint64) BitSource {
	return pcgBits{rng: rand.New(rand.NewPCG(seed, 0x9E3779B97F4A7C15))}
}

// Grid is the single source of truth for cell colors during one run.
//
// It grows lazily: the first time a cell is examined it is assigned one fair
// coin flip and frozen for the remainder of the run. A cell's color is never
// recomputed: re-deriving it would break the "lazy but stable" percolation
// semantics that makes outcomes reproducible for a fixed bit stream.
//
// A Grid is owned by exactly one run at a time and is not safe for
// concurrent mutation; independent runs must construct independent Grids.
type Grid struct {
	cells map[Key]Color
	bits  BitSource
}

// NewGrid returns an empty grid drawing colors from the given source.
func NewGrid(bits BitSource) *Grid {
	return &Grid{
		cells: make(map[Key]Color, 1024),
		bits:  bits,
	}
}

// GetOrAssign returns the stored color of the cell, drawing (and freezing) a
// fair coin flip if the cell was never examined before. The grid grows by
// one entry exactly when the cell was previously unset.
func (g *Grid) GetOrAssign(pos Pos) Color {
	key := pos.Key()
	if color, found := g.cells[key]; found {
		return color
	}
	color := Black
	if g.bits.Bit() {
		color = White
	}
	g.cells[key] = color
	return color
}

// ColorAt returns the stored color of the cell without assigning one. The
// second result reports whether the cell has been colored at all.
func (g *Grid) ColorAt(pos Pos) (Color, bool) {
	color, found := g.cells[pos.Key()]
	return color, found
}

// Has returns whether the cell has been colored.
func (g *Grid) Has(pos Pos) bool {
	_, found := g.cells[pos.Key()]
	return found
}

// Set force-assigns a color to a cell. It is only meant for pre-coloring the
// one or two origin cells before a search begins: assigning to an already
// colored cell would violate the color immutability invariant and panics.
func (g *Grid) Set(pos Pos, color Color) {
	if color == NoColor {
		exceptions.Panicf("hexgrid: cannot Set cell %s back to NoColor", pos)
	}
	key := pos.Key()
	if previous, found := g.cells[key]; found {
		exceptions.Panicf("hexgrid: cell %s is already colored %s, colors are assigned at most once per run", pos, previous)
	}
	g.cells[key] = color
}

// Len is the number of colored cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// All iterates over the colored cells and their colors, in no particular
// order. This is the read-only snapshot view consumed by renderers.
func (g *Grid) All() iter.Seq2[Pos, Color] {
	return func(yield func(Pos, Color) bool) {
		for key, color := range g.cells {
			if !yield(key.Pos(), color) {
				return
			}
		}
	}
}
