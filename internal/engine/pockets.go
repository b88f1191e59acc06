package engine

import (
	"slices"

	"github.com/janpfeifer/hexperc/internal/generics"
	"github.com/janpfeifer/hexperc/internal/hexgrid"
)

// Pockets enumerates the finite hostile-enclosed regions of unset cells left
// behind by an escape run, and returns their sizes in ascending order.
//
// Every unset cell adjacent to a hostile cell seeds a flood-fill of its
// connected unset component. A component is a pocket iff it never touches a
// friendly cell and stays within maxPocketSize; a component larger than
// that is operationally indistinguishable from open space. The visited set
// is shared across all seeds, so each unset cell is claimed by at most one
// component and total work stays linear in the discovered boundary.
func Pockets(grid *hexgrid.Grid, maxPocketSize int) []int {
	visited := generics.MakeSet[hexgrid.Key]()
	var sizes []int
	for pos, color := range grid.All() {
		if color != hexgrid.Black {
			continue
		}
		for seed := range pos.NeighboursIter() {
			if grid.Has(seed) || visited.Has(seed.Key()) {
				continue
			}
			if size, isPocket := fillPocket(grid, seed, visited, maxPocketSize); isPocket {
				sizes = append(sizes, size)
			}
		}
	}
	slices.Sort(sizes)
	return sizes
}

// fillPocket flood-fills the connected component of unset cells containing
// seed, without crossing any colored cell. It reports the component size and
// whether it qualifies as a pocket.
//
// A component that grows past maxSize is abandoned mid-flood: its explored
// cells stay marked visited, and any chunk rediscovered from another seed is
// bounded by the same limit, so the overall work stays bounded even around
// an infinite open area.
func fillPocket(grid *hexgrid.Grid, seed hexgrid.Pos, visited generics.Set[hexgrid.Key], maxSize int) (int, bool) {
	visited.Insert(seed.Key())
	queue := []hexgrid.Pos{seed}
	touchesFriendly := false
	size := 0
	for head := 0; head < len(queue); head++ {
		size++
		if size > maxSize {
			return size, false
		}
		for neighbor := range queue[head].NeighboursIter() {
			if color, isSet := grid.ColorAt(neighbor); isSet {
				if color == hexgrid.White {
					// Keep flooding to claim the whole component, so no
					// other seed can recount part of it as a pocket.
					touchesFriendly = true
				}
				continue
			}
			key := neighbor.Key()
			if visited.Has(key) {
				continue
			}
			visited.Insert(key)
			queue = append(queue, neighbor)
		}
	}
	return size, !touchesFriendly
}
