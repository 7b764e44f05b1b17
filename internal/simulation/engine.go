// Package simulation runs Monte Carlo futures of cumulative account P&L.
package simulation

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/alitto/pond"

	"pnl-projection-service/internal/domain"
	"pnl-projection-service/internal/randvar"
)

// Engine executes independent P&L simulations across a bounded worker pool.
type Engine struct {
	workers int
	seed    int64
}

// EngineOptions contains configuration for creating an Engine.
type EngineOptions struct {
	// Workers caps parallel simulations. Default: runtime.NumCPU().
	Workers int
	// Seed makes runs reproducible when non-zero. Zero (the default) derives
	// a fresh base seed from the wall clock on every Run, so repeated
	// invocations draw fresh randomness.
	Seed int64
}

// NewEngine creates a simulation engine.
func NewEngine(opts EngineOptions) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{
		workers: workers,
		seed:    opts.Seed,
	}
}

// Run executes `simulations` independent futures of `days` days each and
// returns one cumulative-P&L trajectory per simulation. Simulations are a
// parallel map over the simulation index: each worker owns its own variate
// sampler and writes only its own row, and Run joins all workers before
// returning. Callers bound the run with a context deadline; cancellation
// aborts mid-run and returns the context error.
//
// Per simulation, each day draws a Poisson trade count, then one Normal P&L
// sample per trade centered on avgProfit or avgLoss by a winRate coin flip.
func (e *Engine) Run(ctx context.Context, days, simulations int, params domain.SimulationParameters) ([][]float64, error) {
	// Zero or negative dimensions are caller bugs, not degenerate inputs.
	if days <= 0 || simulations <= 0 {
		return nil, fmt.Errorf("run simulation: days %d and simulations %d must be positive", days, simulations)
	}

	baseSeed := e.seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	pool := pond.New(e.workers, simulations)
	defer pool.StopAndWait()

	// Cancellation flows through the group context: the first task error
	// cancels it and every queued task short-circuits on its first day.
	group, gctx := pool.GroupContext(ctx)
	trajectories := make([][]float64, simulations)

	for i := 0; i < simulations; i++ {
		i := i
		group.Submit(func() error {
			// Rows are disjoint per index; no locking needed.
			sampler := randvar.NewSampler(randvar.NewSeededSource(baseSeed + int64(i)))
			trajectory, err := simulateTrajectory(gctx, sampler, days, params)
			if err != nil {
				return err
			}
			trajectories[i] = trajectory
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("run simulation: %w", err)
	}
	return trajectories, nil
}

// simulateTrajectory walks one future day by day, accumulating P&L.
func simulateTrajectory(ctx context.Context, sampler *randvar.Sampler, days int, params domain.SimulationParameters) ([]float64, error) {
	trajectory := make([]float64, days)
	cumulative := 0.0

	for d := 0; d < days; d++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		trades := sampler.Poisson(params.TradesPerDay)
		dayPnL := 0.0
		for t := 0; t < trades; t++ {
			if sampler.Uniform() < params.WinRate {
				dayPnL += sampler.Normal(params.AvgProfit, params.StdDev)
			} else {
				dayPnL += sampler.Normal(params.AvgLoss, params.StdDev)
			}
		}

		cumulative += dayPnL
		trajectory[d] = cumulative
	}

	return trajectory, nil
}
