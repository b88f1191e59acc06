// Package engine implements the percolation searches over a lazy hexgrid:
// the single-origin escape search, the dual-frontier battle between two
// origins, the trapped-region detector both rely on, and the pocket finder.
//
// All engines run single-threaded and yield cooperatively at bounded
// intervals so a host can render intermediate state (see pacer).
package engine

// Mode of a run.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeEscape
	ModeBattle
	lastMode
)

var modeNames = [lastMode]string{"None", "Escape", "Battle"}

// String returns the mode name.
func (m Mode) String() string {
	return modeNames[m]
}

// Result of a finished run.
type Result uint8

const (
	// ResultNone means the run hasn't finished.
	ResultNone Result = iota

	// ResultEscaped: the friendly region reached the escape distance.
	ResultEscaped

	// ResultEncircled: the friendly region is finite, fully enclosed by
	// hostile cells.
	ResultEncircled

	// ResultWhiteWins / ResultBlackWins: battle verdicts, the named side's
	// opponent got trapped.
	ResultWhiteWins
	ResultBlackWins

	// ResultUnresolved: neither battle side provably wins within the
	// practical horizon.
	ResultUnresolved

	// ResultInterrupted: the host abandoned the run; Distance carries the
	// best-effort value reached so far.
	ResultInterrupted

	lastResult
)

var resultNames = [lastResult]string{
	"None", "Escaped", "Encircled", "WhiteWins", "BlackWins", "Unresolved", "Interrupted",
}

// String returns the result name.
func (r Result) String() string {
	return resultNames[r]
}

// Outcome is the immutable terminal record of one run.
type Outcome struct {
	Mode   Mode
	Result Result

	// Distance reached: the maximum BFS depth dequeued for escape runs, the
	// maximum hex distance from the lattice origin of a contested cell for
	// battles.
	Distance int32

	// Steps of work done: cells examined for escape runs, cells colored for
	// battles.
	Steps int
}
