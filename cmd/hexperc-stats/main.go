// hexperc-stats runs a batch of independent percolation simulations in
// parallel and aggregates their outcomes.
//
// Each run gets its own lazily-colored grid, seeded deterministically from
// the base seed, so the whole batch is reproducible.
//
// Example:
//
//	hexperc-stats --mode=battle --num_runs=10000 --config="distance=1000"
package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/janpfeifer/must"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/janpfeifer/hexperc/internal/engine"
	"github.com/janpfeifer/hexperc/internal/hexgrid"
	"github.com/janpfeifer/hexperc/internal/parameters"
	"github.com/janpfeifer/hexperc/internal/profilers"
	"github.com/janpfeifer/hexperc/internal/ui/spinning"
)

var (
	flagMode = flag.String("mode", "escape",
		"Simulation mode: \"escape\" or \"battle\".")
	flagNumRuns     = flag.Int("num_runs", 100, "Number of independent runs.")
	flagParallelism = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and run "+
		"these many simulations simultaneously.")
	flagSeed = flag.Uint64("seed", 1,
		"Base seed: run #i uses seed+i, so the whole batch is reproducible.")
	flagConfig = flag.String("config", "",
		"Engine configuration, comma-separated key=value pairs: "+
			"\"distance\", \"budget\", \"pockets\", \"speed\".")

	// globalCtx is cancelled when the program is about to exit, either by an
	// interrupt (Ctrl+C) or by reaching the end.
	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagNumRuns <= 0 {
		klog.Fatalf("Invalid --num_runs=%d", *flagNumRuns)
	}
	mode := strings.ToLower(*flagMode)
	if mode != "escape" && mode != "battle" {
		klog.Fatalf("Invalid --mode=%q, only \"escape\" and \"battle\" are valid.", *flagMode)
	}

	// Capture Control+C.
	var globalCancel func()
	globalCtx, globalCancel = context.WithCancel(globalCtx)
	spinning.SafeInterrupt(globalCancel, 5*time.Second)
	defer globalCancel()

	// Profilers: HTTP profiler server and CPU profile.
	profilers.Setup(globalCtx)
	defer profilers.OnQuit()

	opts := must.M1(optionsFromConfig(*flagConfig))
	must.M(runBatch(globalCtx, mode, opts))
}

// Results aggregates outcomes across the batch.
type Results struct {
	mu            sync.Mutex
	start         time.Time
	counts        map[engine.Result]int
	sumDistance   int64
	maxDistance   int32
	sumSteps      int64
	pockets       int
	played, total int
}

func (r *Results) record(outcome engine.Outcome, numPockets int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[outcome.Result]++
	r.sumDistance += int64(outcome.Distance)
	r.maxDistance = max(r.maxDistance, outcome.Distance)
	r.sumSteps += int64(outcome.Steps)
	r.pockets += numPockets
	r.played++
}

func (r *Results) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var parts []string
	parts = append(parts, fmt.Sprintf("Ran %d of %d: ", r.played, r.total))
	for _, result := range []engine.Result{
		engine.ResultEscaped, engine.ResultEncircled,
		engine.ResultWhiteWins, engine.ResultBlackWins,
		engine.ResultUnresolved, engine.ResultInterrupted,
	} {
		if count := r.counts[result]; count > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d / ", result, count))
		}
	}
	if r.played > 0 {
		parts = append(parts, fmt.Sprintf("mean distance %.1f (max %d), mean steps %.0f - ",
			float64(r.sumDistance)/float64(r.played), r.maxDistance,
			float64(r.sumSteps)/float64(r.played)))
	}
	parts = append(parts, time.Since(r.start).Round(time.Millisecond).String())
	parts = append(parts, "\033[0K")
	return strings.Join(parts, "")
}

func runBatch(ctx context.Context, mode string, opts engine.Options) error {
	r := &Results{
		start:  time.Now(),
		counts: make(map[engine.Result]int),
		total:  *flagNumRuns,
	}
	var wg errgroup.Group
	wg.SetLimit(getParallelism())
	fmt.Printf("\r%s", r)

	for runIdx := range r.total {
		wg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcome, numPockets := runOne(ctx, mode, opts, *flagSeed+uint64(runIdx))
			if ctx.Err() != nil {
				// Interrupted runs would skew the aggregates.
				return nil
			}
			r.record(outcome, numPockets)
			fmt.Printf("\r%s", r)
			return nil
		})
	}
	err := wg.Wait()
	fmt.Printf("\r%s", r)
	fmt.Println()
	if mode == "escape" && r.played > 0 {
		fmt.Printf("Total sealed pockets across runs: %d\n", r.pockets)
	}
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
		return nil
	}
	return err
}

// runOne executes a single simulation on a fresh grid.
func runOne(ctx context.Context, mode string, opts engine.Options, seed uint64) (engine.Outcome, int) {
	if klog.V(1).Enabled() {
		klog.Infof("Starting run with seed %d", seed)
		defer klog.Infof("Finished run with seed %d", seed)
	}
	opts.Bits = hexgrid.NewBitSource(seed)
	session := engine.New(opts)
	var outcome engine.Outcome
	numPockets := 0
	if mode == "battle" {
		session.SelectOriginPair(hexgrid.Origin, hexgrid.Pos{1, 0})
		outcome = session.RunBattle(ctx)
	} else {
		session.SelectOrigin(hexgrid.Origin)
		outcome = session.RunEscape(ctx)
		if outcome.Result != engine.ResultInterrupted {
			numPockets = len(session.Pockets())
		}
	}
	return outcome, numPockets
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

// getParallelism returns the parallelism.
func getParallelism() (parallelism int) {
	parallelism = runtime.GOMAXPROCS(0)
	if *flagParallelism > 0 {
		parallelism = *flagParallelism
	}
	return
}
