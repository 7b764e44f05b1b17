package domain

// TradeRecord represents a single closed trade on the account.
// Records are immutable once written; they arrive from the platform's
// trade-history API or the live fill feed and are keyed by TradeID.
type TradeRecord struct {
	TradeID    string  `json:"tradeId"`    // deterministic hash or platform-assigned ID
	Instrument string  `json:"instrument"` // traded symbol
	PnL        float64 `json:"pnl"`        // signed profit-or-loss in account currency
	ExecutedAt int64   `json:"executedAt"` // execution timestamp (Unix ms)
}

// IsWin reports whether the trade closed with positive P&L.
func (t *TradeRecord) IsWin() bool {
	return t.PnL > 0
}
