package history

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"pnl-projection-service/internal/domain"
	"pnl-projection-service/internal/observability"
	"pnl-projection-service/internal/storage"
)

// Outcome tags acquired trades with their provenance so callers can tell a
// genuine projection from a degraded one.
type Outcome struct {
	Trades []*domain.TradeRecord
	Origin domain.DataOrigin
}

// Provider acquires trade history, degrading through sources instead of
// failing: platform API, then the local store, then synthetic generation.
type Provider struct {
	platform Source
	store    storage.TradeRecordStore
	fallback Source
	logger   *zap.Logger
}

// ProviderOptions contains configuration for creating a Provider.
type ProviderOptions struct {
	// Platform is the real upstream source. Nil when no API is configured.
	Platform Source
	// Store holds locally ingested trades; consulted before synthetic
	// fallback and kept warm with fetched trades. Optional.
	Store storage.TradeRecordStore
	// Fallback generates synthetic trades. Default: NewSyntheticSource.
	Fallback Source
	// Logger records degradations. Default: no-op.
	Logger *zap.Logger
}

// NewProvider creates a history provider.
func NewProvider(opts ProviderOptions) *Provider {
	fallback := opts.Fallback
	if fallback == nil {
		fallback = NewSyntheticSource(SyntheticOptions{})
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		platform: opts.Platform,
		store:    opts.Store,
		fallback: fallback,
		logger:   logger,
	}
}

// Acquire returns trades for [from, to] tagged with their origin. It never
// fails: an unreachable upstream is logged as a warning and substituted, so
// the projection pipeline always has data to estimate from.
func (p *Provider) Acquire(ctx context.Context, from, to int64) Outcome {
	if p.platform != nil {
		trades, err := p.platform.Fetch(ctx, from, to)
		if err == nil {
			observability.RecordTradesFetched("platform", len(trades))
			p.warmStore(ctx, trades)
			return Outcome{Trades: trades, Origin: domain.OriginRealData}
		}

		observability.RecordUpstreamFetchError()
		p.logger.Warn("upstream trade history fetch failed, degrading",
			zap.Int64("from", from),
			zap.Int64("to", to),
			zap.Error(err),
		)
	}

	// Locally ingested fills are still real account history.
	if p.store != nil {
		trades, err := p.store.GetByTimeRange(ctx, from, to)
		if err != nil {
			p.logger.Warn("local trade store read failed", zap.Error(err))
		} else if len(trades) > 0 {
			observability.RecordTradesFetched("store", len(trades))
			return Outcome{Trades: trades, Origin: domain.OriginRealData}
		}
	}

	trades, err := p.fallback.Fetch(ctx, from, to)
	if err != nil {
		// Synthetic generation has no failure mode today; guard anyway.
		p.logger.Error("synthetic trade generation failed", zap.Error(err))
		trades = nil
	}
	observability.RecordSyntheticFallback()
	observability.RecordTradesFetched("synthetic", len(trades))
	return Outcome{Trades: trades, Origin: domain.OriginSyntheticFallback}
}

// warmStore upserts fetched trades best-effort; duplicates are expected on
// overlapping windows and skipped silently.
func (p *Provider) warmStore(ctx context.Context, trades []*domain.TradeRecord) {
	if p.store == nil {
		return
	}

	for _, t := range trades {
		err := p.store.Insert(ctx, t)
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrDuplicateKey):
		default:
			p.logger.Warn("trade store warm-up insert failed",
				zap.String("tradeId", t.TradeID),
				zap.Error(err),
			)
		}
	}
}
