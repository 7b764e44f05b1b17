package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pnl-projection-service/internal/domain"
	"pnl-projection-service/internal/idhash"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func testFeedConfig() *FeedConfig {
	return &FeedConfig{
		ReconnectDelay:    20 * time.Millisecond,
		MaxReconnectDelay: 100 * time.Millisecond,
		PingInterval:      50 * time.Millisecond,
		ReadTimeout:       2 * time.Second,
		WriteTimeout:      1 * time.Second,
	}
}

func waitForFill(t *testing.T, feed *FillFeed) *domain.TradeRecord {
	t.Helper()
	select {
	case record := <-feed.Fills():
		return record
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for fill")
		return nil
	}
}

func TestFillFeed_ReceivesFills(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteMessage(websocket.TextMessage, []byte(
			`{"tradeId":"fill-001","instrument":"SOL-PERP","pnl":125.5,"executedAt":1700000000000,"sequence":1}`))
		conn.WriteMessage(websocket.TextMessage, []byte(
			`{"instrument":"ETH-PERP","pnl":-42.0,"executedAt":1700000001000,"sequence":2}`))

		// Hold the connection open until the client closes it
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	feed, err := NewFillFeed(context.Background(), wsURL, testFeedConfig(), nil)
	if err != nil {
		t.Fatalf("NewFillFeed failed: %v", err)
	}
	defer feed.Close()

	first := waitForFill(t, feed)
	if first.TradeID != "fill-001" {
		t.Errorf("expected tradeId fill-001, got %s", first.TradeID)
	}
	if first.Instrument != "SOL-PERP" {
		t.Errorf("expected instrument SOL-PERP, got %s", first.Instrument)
	}
	if first.PnL != 125.5 {
		t.Errorf("expected pnl 125.5, got %f", first.PnL)
	}
	if first.ExecutedAt != 1700000000000 {
		t.Errorf("expected executedAt 1700000000000, got %d", first.ExecutedAt)
	}

	second := waitForFill(t, feed)
	wantID := idhash.ComputeTradeID("fill_feed", "ETH-PERP", 1700000001000, 2)
	if second.TradeID != wantID {
		t.Errorf("expected computed tradeId %s, got %s", wantID, second.TradeID)
	}
	if second.PnL != -42.0 {
		t.Errorf("expected pnl -42.0, got %f", second.PnL)
	}
}

func TestFillFeed_SkipsMalformedMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"pnl":10.0}`)) // missing instrument
		conn.WriteMessage(websocket.TextMessage, []byte(
			`{"tradeId":"fill-ok","instrument":"SOL-PERP","pnl":10.0,"executedAt":1700000000000,"sequence":1}`))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	feed, err := NewFillFeed(context.Background(), wsURL, testFeedConfig(), nil)
	if err != nil {
		t.Fatalf("NewFillFeed failed: %v", err)
	}
	defer feed.Close()

	record := waitForFill(t, feed)
	if record.TradeID != "fill-ok" {
		t.Errorf("expected only the valid fill, got %s", record.TradeID)
	}
}

func TestFillFeed_ReconnectsAfterDrop(t *testing.T) {
	var connections atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		n := connections.Add(1)
		if n == 1 {
			// Drop the first connection immediately
			conn.Close()
			return
		}

		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(
			`{"tradeId":"fill-after-reconnect","instrument":"SOL-PERP","pnl":5.0,"executedAt":1700000000000,"sequence":1}`))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	feed, err := NewFillFeed(context.Background(), wsURL, testFeedConfig(), nil)
	if err != nil {
		t.Fatalf("NewFillFeed failed: %v", err)
	}
	defer feed.Close()

	record := waitForFill(t, feed)
	if record.TradeID != "fill-after-reconnect" {
		t.Errorf("expected fill from the second connection, got %s", record.TradeID)
	}
	if connections.Load() < 2 {
		t.Errorf("expected at least 2 connections, got %d", connections.Load())
	}
}

func TestFillFeed_Close(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	feed, err := NewFillFeed(context.Background(), wsURL, testFeedConfig(), nil)
	if err != nil {
		t.Fatalf("NewFillFeed failed: %v", err)
	}

	if err := feed.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := feed.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	select {
	case _, ok := <-feed.Fills():
		if ok {
			t.Error("expected fills channel to be closed")
		}
	case <-time.After(time.Second):
		t.Error("fills channel not closed after Close")
	}
}

func TestNewFillFeed_DialError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewFillFeed(ctx, "ws://127.0.0.1:1/fills", testFeedConfig(), nil)
	if err == nil {
		t.Fatal("expected dial error")
	}
}
