// hexperc runs a single percolation simulation on the infinite hexagonal
// grid and renders it on the terminal.
//
// An escape run seeds one white origin and checks whether its region reaches
// the escape distance; a battle seeds two adjacent opposite-colored origins
// and resolves contested frontier cells until one side is sealed in.
//
// Examples:
//
//	hexperc --seed=42
//	hexperc --mode=battle --watch --config="distance=500,speed=2"
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/janpfeifer/hexperc/internal/engine"
	"github.com/janpfeifer/hexperc/internal/hexgrid"
	"github.com/janpfeifer/hexperc/internal/parameters"
	"github.com/janpfeifer/hexperc/internal/profilers"
	"github.com/janpfeifer/hexperc/internal/ui/cli"
	"github.com/janpfeifer/hexperc/internal/ui/spinning"
)

var (
	flagMode = flag.String("mode", "escape",
		"Simulation mode: \"escape\" (single origin) or \"battle\" (two adjacent origins).")
	flagOrigin = flag.String("origin", "0,0",
		"Axial \"q,r\" coordinates of the (white) origin cell.")
	flagOrigin2 = flag.String("origin2", "",
		"Axial \"q,r\" coordinates of the black origin for --mode=battle. "+
			"Defaults to the cell immediately east of --origin.")
	flagSeed = flag.Uint64("seed", 0,
		"Seed for the cell coin flips. 0 picks a time-based seed.")
	flagConfig = flag.String("config", "",
		"Engine configuration, comma-separated key=value pairs: "+
			"\"distance\" (escape horizon), \"budget\" (trapped-detector bound), "+
			"\"pockets\" (max pocket size), \"speed\" (steps per yield multiplier).")
	flagWatch = flag.Bool("watch", false,
		"Watch mode: redraw the grid while the traversal advances.")
	flagQuiet = flag.Bool("quiet", false,
		"Only print the outcome, skip the grid rendering.")
	flagNoColor = flag.Bool("nocolor", false, "Disable ANSI colors.")

	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// Capture Control+C: the engine unwinds to an Interrupted outcome.
	var cancel func()
	globalCtx, cancel = context.WithCancel(globalCtx)
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	profilers.Setup(globalCtx)
	defer profilers.OnQuit()

	seed := *flagSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	opts := must.M1(optionsFromConfig(*flagConfig))
	opts.Bits = hexgrid.NewBitSource(seed)

	ui := cli.New(!*flagNoColor, *flagWatch)
	var session *engine.Session
	if *flagWatch {
		// Repaint at the engine's suspension points.
		opts.Yield = func(ctx context.Context) error {
			ui.Render(session)
			return ctx.Err()
		}
	}
	session = engine.New(opts)

	origin := must.M1(parseOrigin(*flagOrigin))
	var outcome engine.Outcome
	switch strings.ToLower(*flagMode) {
	case "escape":
		session.SelectOrigin(origin)
		fmt.Printf("Escape run from %s, seed %d\n", origin, seed)
		outcome = runWithSpinner(session.RunEscape)
	case "battle":
		origin2 := origin.Neighbours()[2] // Due east.
		if *flagOrigin2 != "" {
			origin2 = must.M1(parseOrigin(*flagOrigin2))
		}
		session.SelectOriginPair(origin, origin2)
		fmt.Printf("Battle run, white %s vs black %s, seed %d\n", origin, origin2, seed)
		outcome = runWithSpinner(session.RunBattle)
	default:
		klog.Fatalf("Invalid --mode=%q, only \"escape\" and \"battle\" are valid.", *flagMode)
	}

	if !*flagQuiet {
		ui.Render(session)
	} else {
		ui.PrintOutcome(outcome)
	}
	if outcome.Mode == engine.ModeEscape && outcome.Result != engine.ResultInterrupted {
		ui.PrintPockets(session.Pockets())
	}
}

// runWithSpinner shows the spinning indicator while the traversal runs,
// unless watch mode already repaints the screen.
func runWithSpinner(run func(context.Context) engine.Outcome) engine.Outcome {
	if *flagWatch {
		return run(globalCtx)
	}
	s := spinning.New(globalCtx)
	defer s.Done()
	return run(globalCtx)
}

func optionsFromConfig(config string) (opts engine.Options, err error) {
	params := parameters.NewFromConfigString(config)
	opts.EscapeDistance, err = parameters.PopParamOr(params, "distance", int32(engine.DefaultEscapeDistance))
	if err != nil {
		return
	}
	opts.TrappedBudget, err = parameters.PopParamOr(params, "budget", engine.DefaultTrappedBudget)
	if err != nil {
		return
	}
	opts.MaxPocketSize, err = parameters.PopParamOr(params, "pockets", engine.DefaultMaxPocketSize)
	if err != nil {
		return
	}
	opts.Speed, err = parameters.PopParamOr(params, "speed", 1)
	if err != nil {
		return
	}
	err = parameters.CheckExhausted(params)
	return
}

// parseOrigin parses "q,r" axial coordinates.
func parseOrigin(s string) (hexgrid.Pos, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return hexgrid.Pos{}, errors.Errorf("invalid origin %q, expected \"q,r\"", s)
	}
	var pos hexgrid.Pos
	for i, part := range parts {
		value, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return pos, errors.Wrapf(err, "invalid origin coordinate %q in %q", part, s)
		}
		pos[i] = int32(value)
	}
	return pos, nil
}
