package engine

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"

	"github.com/janpfeifer/hexperc/internal/hexgrid"
)

// Defaults for Options. The escape distance and budgets are "practically
// infinite" horizons, not correctness limits.
const (
	DefaultEscapeDistance = 10_000
	DefaultTrappedBudget  = 10_000
	DefaultMaxPocketSize  = 10_000
)

// Options configure a Session. The zero value plus a Bits source is usable:
// missing fields take the defaults above.
type Options struct {
	// EscapeDistance at which a run is considered to have reached infinity:
	// BFS depth for escape runs, hex distance from the lattice origin for
	// battles.
	EscapeDistance int32

	// TrappedBudget bounds the unset-space search of the trapped-region
	// detector. Exhaustion resolves to "assume not trapped".
	TrappedBudget int

	// MaxPocketSize above which an enclosed unset region counts as open
	// space rather than a pocket.
	MaxPocketSize int

	// Speed multiplies the batch of steps run between yields. <=1 is the
	// slowest (most frequent yielding) setting.
	Speed int

	// Yield, if set, is called at the engines' suspension points so the
	// host can render and stay responsive. nil disables yielding.
	Yield YieldFunc

	// Clock is the monotonic clock used to throttle yields. Defaults to
	// time.Now. It never affects outcomes.
	Clock func() time.Time

	// Bits is the fair random source coloring cells on first touch.
	// Defaults to a fixed-seed source; real runs should seed it.
	Bits hexgrid.BitSource
}

func (opts *Options) setDefaults() {
	if opts.EscapeDistance <= 0 {
		opts.EscapeDistance = DefaultEscapeDistance
	}
	if opts.TrappedBudget <= 0 {
		opts.TrappedBudget = DefaultTrappedBudget
	}
	if opts.MaxPocketSize <= 0 {
		opts.MaxPocketSize = DefaultMaxPocketSize
	}
	if opts.Bits == nil {
		opts.Bits = hexgrid.NewBitSource(1)
	}
}

// State of a Session's run lifecycle.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateFinished
	lastState
)

var stateNames = [lastState]string{"Idle", "Running", "Finished"}

// String returns the state name.
func (s State) String() string {
	return stateNames[s]
}

// Session owns the Grid and run state for one percolation run: origins are
// selected on an idle session, exactly one run executes, and Reset discards
// everything for the next run.
//
// The engines are single-threaded; the only method safe to call from another
// goroutine while a run is in flight is Interrupt.
type Session struct {
	opts Options
	grid *hexgrid.Grid

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	mode    Mode
	origins []hexgrid.Pos
	outcome Outcome

	// best distance reached by the in-flight run, for interrupted reports.
	best atomic.Int32
}

// New creates an idle Session.
func New(opts Options) *Session {
	opts.setDefaults()
	return &Session{
		opts: opts,
		grid: hexgrid.NewGrid(opts.Bits),
	}
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Outcome returns the terminal record of the finished run.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// BestDistance returns the largest origin distance reached so far. It is
// safe to call concurrently with a running traversal, for live reporting.
func (s *Session) BestDistance() int32 {
	return s.best.Load()
}

// SelectOrigin seeds the single friendly origin of an escape run. Selecting
// an origin twice, on a colored cell, or while a run is active is a logic
// error and panics.
func (s *Session) SelectOrigin(pos hexgrid.Pos) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkVirginOrigins(pos)
	s.grid.Set(pos, hexgrid.White)
	s.origins = []hexgrid.Pos{pos}
	s.mode = ModeEscape
}

// SelectOriginPair seeds the two origins of a battle: white and black must
// be adjacent cells, pre-colored opposite colors before any traversal.
func (s *Session) SelectOriginPair(white, black hexgrid.Pos) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkVirginOrigins(white, black)
	if white.Distance(black) != 1 {
		exceptions.Panicf("engine: battle origins %s and %s must be adjacent", white, black)
	}
	s.grid.Set(white, hexgrid.White)
	s.grid.Set(black, hexgrid.Black)
	s.origins = []hexgrid.Pos{white, black}
	s.mode = ModeBattle
}

func (s *Session) checkVirginOrigins(positions ...hexgrid.Pos) {
	if s.state != StateIdle {
		exceptions.Panicf("engine: cannot select origins on a %s session", s.state)
	}
	if len(s.origins) > 0 {
		exceptions.Panicf("engine: origins already selected at %v", s.origins)
	}
	for _, pos := range positions {
		if s.grid.Has(pos) {
			exceptions.Panicf("engine: origin %s must be a virgin cell", pos)
		}
	}
}

// RunEscape runs the escape search from the selected origin to completion,
// yielding cooperatively per Options. It blocks until the run terminates:
// including by cancellation of ctx or by Interrupt, which both surface as a
// ResultInterrupted outcome, not an error.
func (s *Session) RunEscape(ctx context.Context) Outcome {
	ctx = s.startRun(ctx, ModeEscape)
	e := &escapeRun{
		grid:           s.grid,
		origin:         s.origins[0],
		escapeDistance: s.opts.EscapeDistance,
		pacer:          newPacer(s.opts.Yield, s.opts.Clock, s.opts.Speed),
		best:           &s.best,
	}
	return s.finishRun(e.run(ctx))
}

// RunBattle runs the battle between the selected origin pair to completion.
// Same blocking and cancellation semantics as RunEscape.
func (s *Session) RunBattle(ctx context.Context) Outcome {
	ctx = s.startRun(ctx, ModeBattle)
	b := &battleRun{
		grid:           s.grid,
		whiteOrigin:    s.origins[0],
		blackOrigin:    s.origins[1],
		escapeDistance: s.opts.EscapeDistance,
		trappedBudget:  s.opts.TrappedBudget,
		pacer:          newPacer(s.opts.Yield, s.opts.Clock, s.opts.Speed),
		best:           &s.best,
	}
	return s.finishRun(b.run(ctx))
}

func (s *Session) startRun(ctx context.Context, mode Mode) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		exceptions.Panicf("engine: cannot start a run on a %s session", s.state)
	}
	if s.mode != mode {
		exceptions.Panicf("engine: session origins were selected for a %s run, not %s", s.mode, mode)
	}
	s.state = StateRunning
	s.best.Store(0)
	ctx, s.cancel = context.WithCancel(ctx)
	klog.V(1).Infof("session: starting %s run from %v", mode, s.origins)
	return ctx
}

func (s *Session) finishRun(outcome Outcome) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.outcome = outcome
	s.state = StateFinished
	return outcome
}

// Interrupt abandons the active run between two yield points and returns the
// best-effort distance reached so far. The run itself still returns, with a
// ResultInterrupted outcome, and the grid stays consistent and readable.
// Calling Interrupt without an active run is a logic error and panics.
func (s *Session) Interrupt() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		exceptions.Panicf("engine: Interrupt called on a %s session", s.state)
	}
	if s.cancel != nil {
		s.cancel()
	}
	return s.best.Load()
}

// Pockets enumerates the sizes of hostile-enclosed pockets. Call it after a
// completed escape run.
func (s *Session) Pockets() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateFinished || s.mode != ModeEscape {
		exceptions.Panicf("engine: Pockets requires a finished escape run (state=%s, mode=%s)", s.state, s.mode)
	}
	return Pockets(s.grid, s.opts.MaxPocketSize)
}

// Snapshot is the read-only view of the colored cells, for rendering. Don't
// consume it concurrently with a running engine; inside a Yield callback is
// the intended place.
func (s *Session) Snapshot() iter.Seq2[hexgrid.Pos, hexgrid.Color] {
	return s.grid.All()
}

// Origins returns the selected origin cells, in selection order.
func (s *Session) Origins() []hexgrid.Pos {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.origins
}

// Reset discards all grid and run state, returning the session to idle. The
// random source keeps its position in the bit stream.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		exceptions.Panicf("engine: cannot Reset a running session, Interrupt it first")
	}
	s.grid = hexgrid.NewGrid(s.opts.Bits)
	s.origins = nil
	s.mode = ModeNone
	s.outcome = Outcome{}
	s.state = StateIdle
	s.best.Store(0)
}
