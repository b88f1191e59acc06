package engine

import (
	"context"
	"sync/atomic"

	"k8s.io/klog/v2"

	"github.com/janpfeifer/hexperc/internal/hexgrid"
)

// battleRun is the dual-frontier competitive coloring between two adjacent
// origins pre-colored opposite colors.
//
// Each round it classifies the contested frontier, tests the outermost (then
// most clockwise) boundary cell with a fair coin flip, and asks the trapped
// detector whether either origin got cut off. The selection rule is a total
// order, so rounds are deterministic for a fixed bit stream despite the map
// iteration underneath.
type battleRun struct {
	grid           *hexgrid.Grid
	whiteOrigin    hexgrid.Pos
	blackOrigin    hexgrid.Pos
	escapeDistance int32
	trappedBudget  int
	pacer          *pacer

	// best mirrors the maximum contested distance, readable by
	// Session.Interrupt from the host goroutine.
	best *atomic.Int32

	steps int
}

// frontiers partitions the unset cells adjacent to at least one colored cell
// into three disjoint classes.
type frontiers struct {
	// boundary cells touch both colors: the contested frontier.
	boundary []hexgrid.Pos

	// whiteOnly / blackOnly cells touch a single color.
	whiteOnly []hexgrid.Pos
	blackOnly []hexgrid.Pos
}

const (
	touchesWhite = 1 << iota
	touchesBlack
)

// classifyFrontiers scans the colored cells and buckets every unset neighbor
// by which colors it touches. Every such cell lands in exactly one class.
func (b *battleRun) classifyFrontiers() frontiers {
	touch := make(map[hexgrid.Key]uint8)
	for pos, color := range b.grid.All() {
		var mask uint8 = touchesWhite
		if color == hexgrid.Black {
			mask = touchesBlack
		}
		for neighbor := range pos.NeighboursIter() {
			if b.grid.Has(neighbor) {
				continue
			}
			touch[neighbor.Key()] |= mask
		}
	}
	var f frontiers
	for key, mask := range touch {
		pos := key.Pos()
		switch mask {
		case touchesWhite:
			f.whiteOnly = append(f.whiteOnly, pos)
		case touchesBlack:
			f.blackOnly = append(f.blackOnly, pos)
		default:
			f.boundary = append(f.boundary, pos)
		}
	}
	return f
}

// pickBoundary selects the boundary cell to test next: maximum hex distance
// from the lattice origin (how far out the contested frontier is, not how
// far from either player), with ties broken by the larger clockwise angle
// from due east. Distinct cells on the same ray at the same distance don't
// exist on the lattice, so the order is total and the pick deterministic.
func pickBoundary(cells []hexgrid.Pos) hexgrid.Pos {
	best := cells[0]
	bestDist := best.Distance(hexgrid.Origin)
	bestAngle := best.Angle()
	for _, pos := range cells[1:] {
		dist := pos.Distance(hexgrid.Origin)
		if dist < bestDist {
			continue
		}
		if dist == bestDist && pos.Angle() <= bestAngle {
			continue
		}
		best, bestDist, bestAngle = pos, dist, pos.Angle()
	}
	return best
}

func (b *battleRun) run(ctx context.Context) Outcome {
	var maxDist int32
	for {
		f := b.classifyFrontiers()
		if len(f.boundary) == 0 {
			// The colors are topologically separated: no contested cell is
			// left, settle on a final trapped check.
			klog.V(1).Infof("battle: boundary exhausted after %d flips, max distance %d",
				b.steps, maxDist)
			return b.finalVerdict(maxDist)
		}

		pick := pickBoundary(f.boundary)
		color := b.grid.GetOrAssign(pick)
		b.steps++
		if dist := pick.Distance(hexgrid.Origin); dist > maxDist {
			maxDist = dist
			b.best.Store(maxDist)
		}
		klog.V(3).Infof("battle: round %d colored %s %s (%d contested)",
			b.steps, pick, color, len(f.boundary))

		if maxDist >= b.escapeDistance {
			// The contested frontier ran past the practical horizon:
			// neither side provably wins.
			return b.outcome(ResultUnresolved, maxDist)
		}

		whiteTrapped := isTrapped(b.grid, b.whiteOrigin, b.escapeDistance, b.trappedBudget)
		blackTrapped := isTrapped(b.grid, b.blackOrigin, b.escapeDistance, b.trappedBudget)
		switch {
		case whiteTrapped && blackTrapped:
			return b.outcome(ResultUnresolved, maxDist)
		case whiteTrapped:
			return b.outcome(ResultBlackWins, maxDist)
		case blackTrapped:
			return b.outcome(ResultWhiteWins, maxDist)
		}

		if err := b.pacer.tick(ctx, len(f.boundary)); err != nil {
			return b.outcome(ResultInterrupted, maxDist)
		}
	}
}

// finalVerdict re-evaluates the trapped detector for both origins once the
// boundary is exhausted; exactly one trapped origin decides the winner.
func (b *battleRun) finalVerdict(maxDist int32) Outcome {
	whiteTrapped := isTrapped(b.grid, b.whiteOrigin, b.escapeDistance, b.trappedBudget)
	blackTrapped := isTrapped(b.grid, b.blackOrigin, b.escapeDistance, b.trappedBudget)
	switch {
	case whiteTrapped && !blackTrapped:
		return b.outcome(ResultBlackWins, maxDist)
	case blackTrapped && !whiteTrapped:
		return b.outcome(ResultWhiteWins, maxDist)
	}
	return b.outcome(ResultUnresolved, maxDist)
}

func (b *battleRun) outcome(result Result, maxDist int32) Outcome {
	klog.V(1).Infof("battle: %s after %d flips, max contested distance %d", result, b.steps, maxDist)
	return Outcome{Mode: ModeBattle, Result: result, Distance: maxDist, Steps: b.steps}
}
