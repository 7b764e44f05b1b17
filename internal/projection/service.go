// Package projection orchestrates one P&L projection request end to end:
// history acquisition, parameter estimation, Monte Carlo simulation,
// aggregation, caching, and snapshot persistence.
package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pnl-projection-service/internal/cache"
	"pnl-projection-service/internal/domain"
	"pnl-projection-service/internal/estimator"
	"pnl-projection-service/internal/history"
	"pnl-projection-service/internal/metrics"
	"pnl-projection-service/internal/observability"
	"pnl-projection-service/internal/simulation"
	"pnl-projection-service/internal/stability"
	"pnl-projection-service/internal/storage"
	"pnl-projection-service/internal/storage/memory"
)

// Validation sentinels. Their messages are part of the API contract and are
// returned verbatim to clients.
var (
	ErrInvalidDays        = errors.New("Days must be between 1 and 365")
	ErrInvalidSimulations = errors.New("Simulations must be between 100 and 10000")
)

// Request bounds.
const (
	MinDays        = 1
	MaxDays        = 365
	MinSimulations = 100
	MaxSimulations = 10000
)

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// TradeAcquirer yields the trade history window used for parameter
// estimation. *history.Provider satisfies it and never fails.
type TradeAcquirer interface {
	Acquire(ctx context.Context, from, to int64) history.Outcome
}

var _ TradeAcquirer = (*history.Provider)(nil)

// Request describes one projection request.
type Request struct {
	Days        int
	Simulations int
	// Refresh bypasses the cache lookup and overwrites the entry.
	Refresh bool
	// Stability requests StabilityMetrics alongside the projection.
	Stability bool
}

// Response pairs the projection with optional stability metrics. Field
// names match the HTTP response body.
type Response struct {
	MonteCarlo *domain.ProjectionResult `json:"monteCarlo"`
	Stability  *domain.StabilityMetrics `json:"stability,omitempty"`
}

// ServiceOptions configures a Service.
type ServiceOptions struct {
	// Trades supplies the estimation history. Required.
	Trades TradeAcquirer
	// Cache holds computed projections. Defaults to an in-process cache.
	Cache cache.ResultCache
	// Snapshots receives one history row per computed projection.
	// Defaults to an in-memory store.
	Snapshots storage.ProjectionSnapshotStore
	// Engine runs the simulations. Defaults to a pooled engine with a
	// random seed.
	Engine *simulation.Engine
	// TTL is the cache lifetime of a computed projection. Default 24h.
	TTL time.Duration
	// LookbackDays is the history window for estimation. Default 90.
	LookbackDays int
	// Timeout bounds one simulation run. Default 30s.
	Timeout time.Duration
	// Clock is the time source. Defaults to time.Now.
	Clock func() time.Time
	// NewRunID defaults to uuid.NewString.
	NewRunID func() string
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Service computes, caches, and persists P&L projections.
type Service struct {
	trades    TradeAcquirer
	cache     cache.ResultCache
	snapshots storage.ProjectionSnapshotStore
	engine    *simulation.Engine
	ttl       time.Duration
	lookback  int
	timeout   time.Duration
	clock     func() time.Time
	newRunID  func() string
	logger    *zap.Logger
}

// NewService creates a projection service from options.
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Trades == nil {
		return nil, errors.New("projection: trade acquirer is required")
	}
	s := &Service{
		trades:    opts.Trades,
		cache:     opts.Cache,
		snapshots: opts.Snapshots,
		engine:    opts.Engine,
		ttl:       opts.TTL,
		lookback:  opts.LookbackDays,
		timeout:   opts.Timeout,
		clock:     opts.Clock,
		newRunID:  opts.NewRunID,
		logger:    opts.Logger,
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.cache == nil {
		// The default cache judges expiry with the same clock the service
		// stamps CachedUntil with.
		s.cache = cache.NewMemory(cache.MemoryOptions{Clock: s.clock})
	}
	if s.snapshots == nil {
		s.snapshots = memory.NewProjectionSnapshotStore()
	}
	if s.engine == nil {
		s.engine = simulation.NewEngine(simulation.EngineOptions{})
	}
	if s.ttl <= 0 {
		s.ttl = 24 * time.Hour
	}
	if s.lookback <= 0 {
		s.lookback = 90
	}
	if s.timeout <= 0 {
		s.timeout = 30 * time.Second
	}
	if s.newRunID == nil {
		s.newRunID = uuid.NewString
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s, nil
}

// ValidateRequest checks the request bounds and returns the contract error
// for the first violated parameter.
func ValidateRequest(days, simulations int) error {
	if days < MinDays || days > MaxDays {
		return ErrInvalidDays
	}
	if simulations < MinSimulations || simulations > MaxSimulations {
		return ErrInvalidSimulations
	}
	return nil
}

// Project serves one projection request:
//  1. validate bounds
//  2. cache lookup unless refresh is forced
//  3. on miss: acquire history, estimate, simulate, aggregate
//  4. best-effort cache write and snapshot insert
//  5. stability analysis when requested
func (s *Service) Project(ctx context.Context, req Request) (*Response, error) {
	if err := ValidateRequest(req.Days, req.Simulations); err != nil {
		observability.RecordProjectionRequest("invalid")
		return nil, err
	}

	key := cache.NewKey(req.Days, req.Simulations)

	var result *domain.ProjectionResult
	var trades []*domain.TradeRecord
	computed := false

	if !req.Refresh {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			observability.RecordCacheHit(s.cache.Name())
			result = cached
		case errors.Is(err, cache.ErrMiss):
			observability.RecordCacheMiss(s.cache.Name())
		default:
			// A broken cache backend degrades to recomputation.
			observability.RecordCacheMiss(s.cache.Name())
			s.logger.Warn("projection cache read failed", zap.Error(err))
		}
	}

	if result == nil {
		outcome, computedResult, err := s.compute(ctx, req.Days, req.Simulations)
		if err != nil {
			observability.RecordProjectionRequest("error")
			return nil, err
		}
		result = computedResult
		trades = outcome.Trades
		computed = true

		s.persist(ctx, key, result)
	}

	resp := &Response{MonteCarlo: result}

	if req.Stability {
		if trades == nil {
			// Cache hit carries no trade list; consult the provider.
			from, to := s.window()
			outcome := s.trades.Acquire(ctx, from, to)
			trades = outcome.Trades
		}
		m := stability.Analyze(trades)
		resp.Stability = &m
		observability.RecordStabilityAnalysis()
	}

	if computed {
		observability.RecordProjectionRequest("computed")
	} else {
		observability.RecordProjectionRequest("hit")
	}
	return resp, nil
}

// History returns the most recent persisted projection snapshots.
func (s *Service) History(ctx context.Context, limit int) ([]*domain.ProjectionSnapshot, error) {
	return s.snapshots.GetRecent(ctx, limit)
}

// window returns the estimation lookback window ending now, in Unix ms.
func (s *Service) window() (int64, int64) {
	to := s.clock().UnixMilli()
	from := to - int64(s.lookback)*msPerDay
	return from, to
}

func (s *Service) compute(ctx context.Context, days, simulations int) (history.Outcome, *domain.ProjectionResult, error) {
	started := s.clock()

	from, to := s.window()
	outcome := s.trades.Acquire(ctx, from, to)
	params := estimator.Estimate(outcome.Trades)

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	trajectories, err := s.engine.Run(runCtx, days, simulations, params)
	if err != nil {
		return outcome, nil, fmt.Errorf("simulation: %w", err)
	}

	agg, err := metrics.Aggregate(trajectories)
	if err != nil {
		return outcome, nil, fmt.Errorf("aggregation: %w", err)
	}

	calculatedAt := s.clock()
	result := &domain.ProjectionResult{
		RunID:              s.newRunID(),
		ExpectedTrajectory: agg.Expected,
		ConfidenceIntervals: domain.ConfidenceIntervals{
			CI95: agg.CI95,
			CI99: agg.CI99,
		},
		SimulationsRun: simulations,
		Days:           days,
		Parameters:     params,
		DataOrigin:     outcome.Origin,
		CalculatedAt:   calculatedAt,
		CachedUntil:    calculatedAt.Add(s.ttl),
	}

	observability.RecordProjectionComputed(calculatedAt.Sub(started).Seconds(), simulations)
	s.logger.Info("projection computed",
		zap.String("runId", result.RunID),
		zap.Int("days", days),
		zap.Int("simulations", simulations),
		zap.String("dataOrigin", string(result.DataOrigin)),
		zap.Float64("expectedFinal", result.FinalExpected()),
	)
	return outcome, result, nil
}

// persist writes the cache entry and the history snapshot. Both writes are
// best-effort: the computed result is already in hand, so failures are
// logged and never surfaced to the caller.
func (s *Service) persist(ctx context.Context, key cache.Key, result *domain.ProjectionResult) {
	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.Warn("projection cache write failed",
			zap.String("key", key.String()),
			zap.Error(err),
		)
	}

	if err := s.snapshots.Insert(ctx, domain.SnapshotFromProjection(result)); err != nil {
		s.logger.Warn("projection snapshot insert failed",
			zap.String("runId", result.RunID),
			zap.Error(err),
		)
		return
	}
	observability.RecordSnapshotWritten()
}
