package anneal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/fairdraw/fairdraw/internal/cost"
	"github.com/fairdraw/fairdraw/internal/schedule"
	"github.com/fairdraw/fairdraw/internal/strategy"
)

// Defaults for Options fields left at their zero value.
const (
	DefaultInitialTemp  = 1000.0
	DefaultCoolingRate  = 0.95
	DefaultIterations   = 100
	DefaultSwapAttempts = 20
)

// ErrConstruction is returned when no valid starting schedule could be
// built, even after one rebuild.
var ErrConstruction = errors.New("could not construct a valid schedule")

// ErrBadInput is returned when the tiers, cost table, or options are
// malformed. No search runs on bad input.
var ErrBadInput = errors.New("invalid annealing input")

// Options tunes a single annealing run. Zero values fall back to the
// package defaults, so a literal zero-iteration search is not expressible;
// a nil Builder means the circle method and a nil Logger silences progress
// output.
type Options struct {
	InitialTemp  float64
	CoolingRate  float64
	Iterations   int
	SwapAttempts int
	Seed         int64
	Builder      strategy.Builder
	Logger       *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.InitialTemp == 0 {
		o.InitialTemp = DefaultInitialTemp
	}
	if o.CoolingRate == 0 {
		o.CoolingRate = DefaultCoolingRate
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	if o.SwapAttempts == 0 {
		o.SwapAttempts = DefaultSwapAttempts
	}
	if o.Builder == nil {
		o.Builder = strategy.Default()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

func (o Options) validate() error {
	if o.InitialTemp < 0 {
		return fmt.Errorf("initial temperature %v must not be negative", o.InitialTemp)
	}
	if o.CoolingRate <= 0 || o.CoolingRate >= 1 {
		return fmt.Errorf("cooling rate %v must be between 0 and 1 exclusive", o.CoolingRate)
	}
	if o.Iterations < 0 {
		return fmt.Errorf("iteration count %d must not be negative", o.Iterations)
	}
	if o.SwapAttempts < 0 {
		return fmt.Errorf("swap attempt count %d must not be negative", o.SwapAttempts)
	}
	return nil
}

// Result carries the best schedule found and the search trace.
type Result struct {
	Schedule    schedule.Schedule
	Cost        float64
	InitialCost float64
	Improved    int       // times the best cost dropped
	Accepted    int       // candidates adopted as the working schedule
	Rejected    int       // candidates declined by the acceptance rule
	Discarded   int       // candidates thrown out as invalid
	History     []float64 // best cost after each iteration
	Valid       bool      // best schedule re-validated before returning
}

// Improvement returns the relative cost reduction in percent. A run that
// started at zero cost had nothing to improve.
func (r *Result) Improvement() float64 {
	if r.InitialCost == 0 {
		return 0
	}
	return (r.InitialCost - r.Cost) / r.InitialCost * 100
}

// Run searches for a low-cost single round-robin of numTeams teams whose
// strength classes are given by tiers. It builds a starting schedule with
// the configured strategy, then repeatedly perturbs the working copy:
// strictly cheaper candidates are always adopted, more expensive ones with
// a probability that shrinks as the temperature cools. The best schedule
// seen is tracked separately and returned, so the reported cost never
// exceeds the starting cost.
func Run(numTeams int, tiers []cost.Tier, table cost.Table, opts Options) (*Result, error) {
	if len(tiers) != numTeams {
		return nil, fmt.Errorf("%w: got %d tiers for %d teams", ErrBadInput, len(tiers), numTeams)
	}
	for i, tier := range tiers {
		if !tier.Known() {
			return nil, fmt.Errorf("%w: team %d has unknown tier %q", ErrBadInput, i, tier)
		}
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadInput, err)
	}

	logger := opts.Logger
	rng := rand.New(rand.NewSource(opts.Seed))

	current, err := buildStart(numTeams, opts.Builder, rng, logger)
	if err != nil {
		return nil, err
	}

	currentCost := cost.Evaluate(current, tiers, table)
	best := current.Clone()
	bestCost := currentCost

	res := &Result{
		InitialCost: currentCost,
		History:     make([]float64, 0, opts.Iterations),
	}

	logger.Info("annealing started",
		zap.Int("teams", numTeams),
		zap.Int("iterations", opts.Iterations),
		zap.Float64("initial_cost", currentCost),
		zap.Float64("initial_temp", opts.InitialTemp),
		zap.Float64("cooling_rate", opts.CoolingRate),
	)

	temp := opts.InitialTemp
	for i := 0; i < opts.Iterations; i++ {
		candidate := neighbor(current, rng, opts.SwapAttempts)
		if !schedule.IsValid(candidate, numTeams) {
			// Cooling applies only to candidates that reach the
			// acceptance rule.
			res.Discarded++
			res.History = append(res.History, bestCost)
			continue
		}

		candidateCost := cost.Evaluate(candidate, tiers, table)
		switch {
		case candidateCost < currentCost:
			current, currentCost = candidate, candidateCost
			res.Accepted++
			if candidateCost < bestCost {
				best, bestCost = candidate.Clone(), candidateCost
				res.Improved++
				logger.Debug("best improved",
					zap.Int("iteration", i),
					zap.Float64("cost", bestCost),
				)
			}
		case temp > 0 && rng.Float64() < math.Exp(-(candidateCost-currentCost)/temp):
			current, currentCost = candidate, candidateCost
			res.Accepted++
		default:
			res.Rejected++
		}

		temp *= opts.CoolingRate
		res.History = append(res.History, bestCost)
	}

	res.Schedule = best
	res.Cost = bestCost
	res.Valid = schedule.IsValid(best, numTeams)
	if !res.Valid {
		logger.Warn("best schedule failed final validation")
	}

	logger.Info("annealing finished",
		zap.Float64("best_cost", bestCost),
		zap.Int("improved", res.Improved),
		zap.Int("accepted", res.Accepted),
		zap.Int("rejected", res.Rejected),
		zap.Int("discarded", res.Discarded),
		zap.Bool("valid", res.Valid),
	)

	return res, nil
}

// buildStart constructs and validates the starting schedule, allowing one
// rebuild before giving up.
func buildStart(numTeams int, b strategy.Builder, rng *rand.Rand, logger *zap.Logger) (schedule.Schedule, error) {
	for attempt := 1; attempt <= 2; attempt++ {
		s, err := b.Build(numTeams, rng)
		if err != nil {
			return nil, err
		}
		if schedule.IsValid(s, numTeams) {
			return s, nil
		}
		logger.Warn("start schedule failed validation",
			zap.String("strategy", b.Name()),
			zap.Int("attempt", attempt),
		)
	}
	return nil, fmt.Errorf("strategy %q: %w", b.Name(), ErrConstruction)
}
