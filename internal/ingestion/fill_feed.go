// Package ingestion keeps the local trade history current by consuming the
// platform's live fill stream between projection requests.
package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pnl-projection-service/internal/domain"
	"pnl-projection-service/internal/idhash"
	"pnl-projection-service/internal/observability"
)

// FeedConfig configures fill feed behavior.
type FeedConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultFeedConfig returns default fill feed configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// fillMessage is the wire shape of one fill pushed by the platform.
// tradeId may be absent; a deterministic ID is computed from the rest.
type fillMessage struct {
	TradeID    string  `json:"tradeId"`
	Instrument string  `json:"instrument"`
	PnL        float64 `json:"pnl"`
	ExecutedAt int64   `json:"executedAt"`
	Sequence   int     `json:"sequence"`
}

// FillFeed consumes the platform's WebSocket fill stream and delivers each
// fill as a TradeRecord. The feed reconnects with exponential backoff and
// never drops a parsed fill: sends block until the consumer catches up.
type FillFeed struct {
	endpoint string
	config   FeedConfig
	logger   *zap.Logger

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	fills chan *domain.TradeRecord

	// done signals shutdown
	done chan struct{}
	wg   sync.WaitGroup

	// reconnecting indicates reconnection in progress
	reconnecting atomic.Bool
}

// NewFillFeed connects to the fill stream and starts its read and ping loops.
func NewFillFeed(ctx context.Context, endpoint string, config *FeedConfig, logger *zap.Logger) (*FillFeed, error) {
	cfg := DefaultFeedConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	f := &FillFeed{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger,
		fills:    make(chan *domain.TradeRecord, 1024),
		done:     make(chan struct{}),
	}

	if err := f.connect(ctx); err != nil {
		return nil, err
	}

	f.wg.Add(1)
	go f.readLoop()

	f.wg.Add(1)
	go f.pingLoop()

	return f, nil
}

// Fills returns the channel of incoming fills. Closed when the feed closes.
func (f *FillFeed) Fills() <-chan *domain.TradeRecord {
	return f.fills
}

// connect establishes the WebSocket connection.
func (f *FillFeed) connect(ctx context.Context) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, f.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	f.conn = conn
	return nil
}

// Close closes the connection and the fills channel.
func (f *FillFeed) Close() error {
	if f.closed.Swap(true) {
		return nil // Already closed
	}

	close(f.done)

	f.connMu.Lock()
	if f.conn != nil {
		f.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		f.conn.Close()
	}
	f.connMu.Unlock()

	f.wg.Wait()
	close(f.fills)
	return nil
}

// readLoop reads fill messages and delivers them until the feed closes.
func (f *FillFeed) readLoop() {
	defer f.wg.Done()

	reconnectDelay := f.config.ReconnectDelay

	for !f.closed.Load() {
		f.connMu.Lock()
		conn := f.conn
		f.connMu.Unlock()

		if conn == nil {
			select {
			case <-f.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(f.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if f.closed.Load() {
				return
			}

			// Connection error - attempt reconnect with exponential backoff
			if !f.reconnecting.Swap(true) {
				go f.reconnect(reconnectDelay)
			}

			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > f.config.MaxReconnectDelay {
				reconnectDelay = f.config.MaxReconnectDelay
			}

			select {
			case <-f.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		// Reset delay on successful read
		reconnectDelay = f.config.ReconnectDelay

		f.handleMessage(message)
	}
}

// reconnect attempts to re-establish the connection after a delay.
func (f *FillFeed) reconnect(delay time.Duration) {
	defer f.reconnecting.Store(false)

	if f.closed.Load() {
		return
	}

	observability.RecordFeedReconnect()
	f.logger.Warn("fill feed disconnected, reconnecting",
		zap.Duration("delay", delay),
	)

	select {
	case <-f.done:
		return
	case <-time.After(delay):
	}

	f.connMu.Lock()
	if f.conn != nil {
		f.conn.Close()
		f.conn = nil
	}
	f.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := f.connect(ctx); err != nil {
		// Reconnect failed, will retry on next read error
		return
	}

	f.logger.Info("fill feed reconnected")
}

// handleMessage parses one fill and delivers it.
func (f *FillFeed) handleMessage(message []byte) {
	var msg fillMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		observability.RecordIngestionError("decode")
		f.logger.Warn("undecodable fill message", zap.Error(err))
		return
	}
	if msg.Instrument == "" || msg.ExecutedAt == 0 {
		observability.RecordIngestionError("incomplete")
		f.logger.Warn("incomplete fill message",
			zap.String("instrument", msg.Instrument),
			zap.Int64("executedAt", msg.ExecutedAt),
		)
		return
	}

	tradeID := msg.TradeID
	if tradeID == "" {
		tradeID = idhash.ComputeTradeID("fill_feed", msg.Instrument, msg.ExecutedAt, msg.Sequence)
	}

	record := &domain.TradeRecord{
		TradeID:    tradeID,
		Instrument: msg.Instrument,
		PnL:        msg.PnL,
		ExecutedAt: msg.ExecutedAt,
	}

	// Block until the consumer takes it - never drop fills
	select {
	case f.fills <- record:
	case <-f.done:
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (f *FillFeed) pingLoop() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			f.connMu.Lock()
			if f.conn != nil {
				f.conn.SetWriteDeadline(time.Now().Add(f.config.WriteTimeout))
				if err := f.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader will handle reconnect
					f.logger.Debug("ping write failed", zap.Error(err))
				}
			}
			f.connMu.Unlock()
		}
	}
}
