package hexgrid

import (
	"github.com/gomlx/exceptions"
)

const (
	// MaxCoordinate bounds |q| and |r| of any cell the grid can hold. The
	// value is tied to the key packing below, not a fundamental limit: it
	// can be raised as long as keyBase stays strictly greater than twice it.
	MaxCoordinate = 50_000

	// keyBase is the radix used to pack the two shifted axes into one Key.
	// It must be strictly greater than 2*MaxCoordinate so the axes cannot
	// overlap.
	keyBase = 1 << 17
)

// Key is the packed single-integer form of a Pos, used to index the Grid.
// Key() and Pos() form a bijection over the supported coordinate range.
type Key int64

// Key packs the position into a single integer: each axis is shifted by
// MaxCoordinate to make it non-negative, then combined in base keyBase.
//
// Positions outside ±MaxCoordinate are a programming error (callers must
// never construct them) and panic.
func (pos Pos) Key() Key {
	q, r := pos[0], pos[1]
	if q < -MaxCoordinate || q > MaxCoordinate || r < -MaxCoordinate || r > MaxCoordinate {
		exceptions.Panicf("hexgrid: position %s is outside the supported ±%d coordinate range", pos, MaxCoordinate)
	}
	return Key(int64(q)+MaxCoordinate)*keyBase + Key(int64(r)+MaxCoordinate)
}

// Pos reverses Pos.Key. Keys that don't decode to an in-range position are a
// programming error and panic.
func (key Key) Pos() Pos {
	q := int64(key)/keyBase - MaxCoordinate
	r := int64(key)%keyBase - MaxCoordinate
	if key < 0 || q > MaxCoordinate || r > MaxCoordinate {
		exceptions.Panicf("hexgrid: key %d does not encode a position within the supported ±%d range", key, MaxCoordinate)
	}
	return Pos{int32(q), int32(r)}
}
