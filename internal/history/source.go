// Package history acquires the trade records parameters are estimated from:
// the platform's trade-history API first, the local store second, and a
// synthetic generator as the never-failing last resort.
package history

import (
	"context"

	"pnl-projection-service/internal/domain"
)

// Source fetches closed trades executed within [from, to] (Unix ms, inclusive).
type Source interface {
	Fetch(ctx context.Context, from, to int64) ([]*domain.TradeRecord, error)
}
