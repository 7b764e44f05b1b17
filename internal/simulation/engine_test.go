package simulation

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"pnl-projection-service/internal/domain"
)

func defaultParams() domain.SimulationParameters {
	return domain.DefaultSimulationParameters
}

func TestEngineRun_Shape(t *testing.T) {
	engine := NewEngine(EngineOptions{Workers: 4, Seed: 42})

	trajectories, err := engine.Run(context.Background(), 30, 200, defaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(trajectories) != 200 {
		t.Fatalf("expected 200 trajectories, got %d", len(trajectories))
	}
	for i, traj := range trajectories {
		if len(traj) != 30 {
			t.Fatalf("trajectory %d: expected 30 days, got %d", i, len(traj))
		}
		for d, v := range traj {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("trajectory %d day %d: non-finite value %f", i, d, v)
			}
		}
	}
}

func TestEngineRun_Reproducible(t *testing.T) {
	// Same seed → identical trajectories across independent engines.
	a := NewEngine(EngineOptions{Workers: 4, Seed: 7})
	b := NewEngine(EngineOptions{Workers: 2, Seed: 7})

	ta, err := a.Run(context.Background(), 10, 50, defaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tb, err := b.Run(context.Background(), 10, 50, defaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range ta {
		for d := range ta[i] {
			if ta[i][d] != tb[i][d] {
				t.Fatalf("trajectory %d day %d diverged: %f vs %f", i, d, ta[i][d], tb[i][d])
			}
		}
	}
}

func TestEngineRun_FreshRandomnessByDefault(t *testing.T) {
	// Seed 0 → each Run derives a new base seed; two runs should not
	// produce identical output.
	engine := NewEngine(EngineOptions{Workers: 4})

	ta, err := engine.Run(context.Background(), 10, 20, defaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tb, err := engine.Run(context.Background(), 10, 20, defaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	identical := true
	for i := range ta {
		for d := range ta[i] {
			if ta[i][d] != tb[i][d] {
				identical = false
			}
		}
	}
	if identical {
		t.Error("two unseeded runs produced identical trajectories")
	}
}

func TestEngineRun_InvalidDimensions(t *testing.T) {
	engine := NewEngine(EngineOptions{Seed: 1})

	if _, err := engine.Run(context.Background(), 0, 100, defaultParams()); err == nil {
		t.Error("expected error for zero days")
	}
	if _, err := engine.Run(context.Background(), 30, 0, defaultParams()); err == nil {
		t.Error("expected error for zero simulations")
	}
}

func TestEngineRun_ZeroTradesPerDay(t *testing.T) {
	// No trades → flat zero trajectories, not an error.
	params := defaultParams()
	params.TradesPerDay = 0

	engine := NewEngine(EngineOptions{Workers: 2, Seed: 3})
	trajectories, err := engine.Run(context.Background(), 5, 120, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, traj := range trajectories {
		for d, v := range traj {
			if v != 0 {
				t.Fatalf("trajectory %d day %d: expected 0, got %f", i, d, v)
			}
		}
	}
}

func TestEngineRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(EngineOptions{Workers: 2, Seed: 5})
	if _, err := engine.Run(ctx, 365, 1000, defaultParams()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEngineRun_DeadlineExceeded(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	engine := NewEngine(EngineOptions{Workers: 2, Seed: 5})
	if _, err := engine.Run(ctx, 365, 1000, defaultParams()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestEngineRun_CumulativeMonotoneForPureWinners(t *testing.T) {
	// winRate 1 with tight positive distribution → every day adds a
	// non-negative amount (stdDev 0 keeps draws at exactly avgProfit), so
	// trajectories are non-decreasing.
	params := domain.SimulationParameters{
		WinRate:      1,
		AvgProfit:    50,
		AvgLoss:      -80,
		StdDev:       0,
		TradesPerDay: 3,
	}

	engine := NewEngine(EngineOptions{Workers: 2, Seed: 11})
	trajectories, err := engine.Run(context.Background(), 20, 100, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, traj := range trajectories {
		prev := 0.0
		for d, v := range traj {
			if v < prev {
				t.Fatalf("trajectory %d day %d decreased: %f < %f", i, d, v, prev)
			}
			prev = v
		}
	}
}
