package engine

import (
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"

	"github.com/janpfeifer/hexperc/internal/generics"
	"github.com/janpfeifer/hexperc/internal/hexgrid"
)

// isTrapped reports whether the same-color connected region containing
// origin is cut off from ever reaching hex distance maxDist from the lattice
// origin.
//
// It is a pure function of the grid contents at call time: it reads colors
// with ColorAt and never assigns any.
//
// The search through unset space is bounded by budget. When the budget runs
// out without a verdict the region is assumed NOT trapped: escape is
// presumed reachable through the unexplored remainder of the infinite unset
// space. That is a deliberate approximation (a sufficiently labyrinthine
// enclosure can fool it), kept because replacing it with a stricter policy
// would change game outcomes.
func isTrapped(grid *hexgrid.Grid, origin hexgrid.Pos, maxDist int32, budget int) bool {
	color, found := grid.ColorAt(origin)
	if !found || color == hexgrid.NoColor {
		exceptions.Panicf("engine: isTrapped called on uncolored cell %s", origin)
	}

	// Flood-fill the same-color region, collecting its breathing frontier:
	// the unset cells adjacent to it. Opposite-colored neighbors are walls.
	region := generics.SetWith(origin.Key())
	frontierSeen := generics.MakeSet[hexgrid.Key]()
	var frontier []hexgrid.Pos
	regionQueue := []hexgrid.Pos{origin}
	for head := 0; head < len(regionQueue); head++ {
		for neighbor := range regionQueue[head].NeighboursIter() {
			key := neighbor.Key()
			if region.Has(key) || frontierSeen.Has(key) {
				continue
			}
			neighborColor, isSet := grid.ColorAt(neighbor)
			if !isSet {
				frontierSeen.Insert(key)
				frontier = append(frontier, neighbor)
				continue
			}
			if neighborColor == color {
				region.Insert(key)
				regionQueue = append(regionQueue, neighbor)
			}
		}
	}
	if len(frontier) == 0 {
		// Completely walled in by the opposite color.
		klog.V(2).Infof("isTrapped(%s): region of %d %s cells has no breathing frontier",
			origin, len(region), color)
		return true
	}

	// Bounded BFS through unset cells only, starting from the breathing
	// frontier. Colored cells of either color block expansion but are never
	// entered.
	visited := frontierSeen
	queue := frontier
	explored := 0
	for head := 0; head < len(queue); head++ {
		pos := queue[head]
		if pos.Distance(hexgrid.Origin) >= maxDist {
			// A still-unset cell at the horizon: the region can escape.
			return false
		}
		explored++
		if explored >= budget {
			klog.V(2).Infof("isTrapped(%s): budget of %d unset cells exhausted, assuming not trapped",
				origin, budget)
			return false
		}
		for neighbor := range pos.NeighboursIter() {
			key := neighbor.Key()
			if visited.Has(key) {
				continue
			}
			if _, isSet := grid.ColorAt(neighbor); isSet {
				continue
			}
			visited.Insert(key)
			queue = append(queue, neighbor)
		}
	}

	// The reachable unset space drained below the horizon and under budget:
	// the region truly is trapped.
	klog.V(2).Infof("isTrapped(%s): unset space drained after %d cells, region is trapped",
		origin, explored)
	return true
}
