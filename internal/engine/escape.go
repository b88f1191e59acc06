package engine

import (
	"context"
	"sync/atomic"

	"k8s.io/klog/v2"

	"github.com/janpfeifer/hexperc/internal/generics"
	"github.com/janpfeifer/hexperc/internal/hexgrid"
)

// escapeRun is the single-origin breadth-first escape search.
//
// It expands friendly cells only (hostile cells are dead ends), examining
// (and thereby lazily coloring) neighbors in the fixed clockwise order.
// The FIFO queue guarantees dequeued depths are non-decreasing, so the first
// dequeued cell at escapeDistance proves escape without draining the queue.
type escapeRun struct {
	grid           *hexgrid.Grid
	origin         hexgrid.Pos
	escapeDistance int32
	pacer          *pacer

	// best mirrors the maximum dequeued depth, readable by Session.Interrupt
	// from the host goroutine while the run is in flight.
	best *atomic.Int32

	steps int
}

// queuedCell is one BFS entry: a friendly cell and its depth from origin.
// Depth is a path property: it can exceed the hex distance to the origin
// when the friendly path winds.
type queuedCell struct {
	pos   hexgrid.Pos
	depth int32
}

func (e *escapeRun) run(ctx context.Context) Outcome {
	visited := generics.MakeSet[hexgrid.Key](1024)
	visited.Insert(e.origin.Key())
	queue := []queuedCell{{e.origin, 0}}
	var maxDepth int32

	for head := 0; head < len(queue); head++ {
		cell := queue[head]
		if cell.depth > maxDepth {
			maxDepth = cell.depth
			e.best.Store(maxDepth)
		}
		if cell.depth >= e.escapeDistance {
			klog.V(1).Infof("escape: origin %s escaped at depth %d after %d cells examined",
				e.origin, cell.depth, e.steps)
			return e.outcome(ResultEscaped, maxDepth)
		}
		for neighbor := range cell.pos.NeighboursIter() {
			key := neighbor.Key()
			if visited.Has(key) {
				continue
			}
			visited.Insert(key)
			e.steps++
			if e.grid.GetOrAssign(neighbor) != hexgrid.White {
				continue
			}
			queue = append(queue, queuedCell{neighbor, cell.depth + 1})
		}
		if err := e.pacer.tick(ctx, len(queue)-head-1); err != nil {
			klog.V(1).Infof("escape: interrupted at depth %d after %d cells examined", maxDepth, e.steps)
			return e.outcome(ResultInterrupted, maxDepth)
		}
	}

	klog.V(1).Infof("escape: origin %s encircled, max depth %d, %d cells examined",
		e.origin, maxDepth, e.steps)
	return e.outcome(ResultEncircled, maxDepth)
}

func (e *escapeRun) outcome(result Result, maxDepth int32) Outcome {
	return Outcome{Mode: ModeEscape, Result: result, Distance: maxDepth, Steps: e.steps}
}
