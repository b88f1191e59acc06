// Package hexgrid implements the infinite hexagonal lattice the percolation
// runs on: axial coordinates, the packed integer key codec and the lazily
// colored grid store.
package hexgrid

import (
	"fmt"
	"iter"
	"slices"

	"github.com/chewxy/math32"
	"github.com/janpfeifer/hexperc/internal/generics"
)

// NumNeighbors of each position: the lattice is hexagonal.
const NumNeighbors = 6

// Pos packages the axial q, r coordinates of a cell, on a pointy-top hex
// lattice. Coordinates are conceptually unbounded, but the key codec (see
// Pos.Key) bounds them to ±MaxCoordinate.
type Pos [2]int32

// Q coordinate of the position.
func (pos Pos) Q() int32 {
	return pos[0]
}

// R coordinate of the position.
func (pos Pos) R() int32 {
	return pos[1]
}

// String returns a text representation of Pos.
func (pos Pos) String() string {
	return fmt.Sprintf("(%d, %d)", pos[0], pos[1])
}

// Origin of the lattice. Distances and angles used by the battle selection
// rule are measured from here, not from either player's starting cell.
var Origin = Pos{0, 0}

var neighborRelPositions = [NumNeighbors]Pos{{0, -1}, {1, -1}, {1, 0}, {0, 1}, {-1, 1}, {-1, 0}}

// NeighboursIter iterates over the 6 neighbor positions of the reference position.
//
// The iteration order is fixed, and the neighbors are listed in a clockwise
// manner: run reproducibility relies on every traversal using this order.
func (pos Pos) NeighboursIter() iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		q, r := pos[0], pos[1]
		for _, relPos := range neighborRelPositions {
			if !yield(Pos{q + relPos[0], r + relPos[1]}) {
				return
			}
		}
	}
}

// Neighbours returns the 6 neighbour positions of the reference position, in
// the same fixed clockwise order as NeighboursIter. It returns a newly
// allocated slice.
func (pos Pos) Neighbours() []Pos {
	q, r := pos[0], pos[1]
	return []Pos{
		{q, r - 1}, {q + 1, r - 1}, {q + 1, r},
		{q, r + 1}, {q - 1, r + 1}, {q - 1, r}}
}

// Distance returns the hex distance between two cells: the number of steps
// of a shortest lattice path. It is the max-norm on the cube coordinates
// (q, r, s) with s = -q-r.
//
// Notice this is a lattice property, not a path property: a breadth-first
// search depth from pos can exceed Distance when the path has to wind.
func (pos Pos) Distance(pos2 Pos) int32 {
	dq := pos[0] - pos2[0]
	dr := pos[1] - pos2[1]
	return max(generics.Abs(dq), generics.Abs(dr), generics.Abs(dq+dr))
}

// sqrt3Over2 is the vertical spacing factor of a pointy-top hex row.
const sqrt3Over2 = float32(0.8660254037844386)

// Angle returns the clockwise angle of the cell as seen from the lattice
// origin, measured from due east, in [0, 2π). The screen convention is used
// (rows with larger r are further "down"), so increasing angles sweep
// east → south → west → north.
//
// Only comparisons between angles matter (battle tie-breaking), the absolute
// value is never interpreted.
func (pos Pos) Angle() float32 {
	x := float32(pos[0]) + float32(pos[1])/2
	y := sqrt3Over2 * float32(pos[1])
	a := math32.Atan2(y, x)
	if a < 0 {
		a += 2 * math32.Pi
	}
	return a
}

// SortPositions sorts according to r first and then q. Used where a
// deterministic enumeration of a position set is needed.
func SortPositions(positions []Pos) {
	slices.SortFunc(positions, func(a, b Pos) int {
		if a[1] != b[1] {
			return int(a[1]) - int(b[1])
		}
		return int(a[0]) - int(b[0])
	})
}
