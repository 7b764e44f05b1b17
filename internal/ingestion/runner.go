package ingestion

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"pnl-projection-service/internal/domain"
	"pnl-projection-service/internal/observability"
	"pnl-projection-service/internal/storage"
)

// FillSource is anything that delivers trade records on a channel.
// *FillFeed satisfies it; tests use a plain channel behind a stub.
type FillSource interface {
	Fills() <-chan *domain.TradeRecord
}

var _ FillSource = (*FillFeed)(nil)

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// Feed delivers incoming fills. Required.
	Feed FillSource
	// Store receives every fill. Required.
	Store storage.TradeRecordStore
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Runner drains a fill source into the trade record store. Re-delivered
// fills hash to the same trade ID, so duplicate key errors are counted
// and skipped rather than surfaced.
type Runner struct {
	feed   FillSource
	store  storage.TradeRecordStore
	logger *zap.Logger
}

// NewRunner creates a runner from options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Feed == nil {
		return nil, errors.New("ingestion: feed is required")
	}
	if opts.Store == nil {
		return nil, errors.New("ingestion: store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		feed:   opts.Feed,
		store:  opts.Store,
		logger: logger,
	}, nil
}

// Run consumes fills until the context is cancelled or the feed channel
// closes. Returns ctx.Err() on cancellation, nil on a closed feed.
func (r *Runner) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case record, ok := <-r.feed.Fills():
			if !ok {
				r.logger.Info("fill feed closed, ingestion stopping")
				return nil
			}
			r.ingest(ctx, record)
		}
	}
}

func (r *Runner) ingest(ctx context.Context, record *domain.TradeRecord) {
	err := r.store.Insert(ctx, record)
	switch {
	case err == nil:
		observability.RecordFillIngested()
	case errors.Is(err, storage.ErrDuplicateKey):
		observability.RecordDuplicateFill()
	default:
		observability.RecordIngestionError("store")
		r.logger.Error("fill insert failed",
			zap.String("tradeId", record.TradeID),
			zap.Error(err),
		)
	}
}
