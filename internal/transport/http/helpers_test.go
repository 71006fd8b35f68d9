package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/sjpark-dev/roomchat-server/internal/config"
	"github.com/sjpark-dev/roomchat-server/internal/core"
	"github.com/sjpark-dev/roomchat-server/internal/proto"
	"github.com/sjpark-dev/roomchat-server/internal/store"
	"github.com/sjpark-dev/roomchat-server/internal/store/sqlite"
)

// startTestServer spins up a hub and HTTP server without persistence.
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return startTestServerWithStore(t, nil)
}

// startTestServerWithDB spins up a hub and HTTP server backed by an
// in-memory SQLite store.
func startTestServerWithDB(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return startTestServerWithStore(t, st), st
}

func startTestServerWithStore(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	hub := core.NewHub(st, &logger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cfg := config.Default()
	cfg.Addr = ":0"
	cfg.ReadHeaderTimeout = time.Second
	cfg.ShutdownTimeout = time.Second

	server := NewServer(hub, st, &cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

// outbound mirrors proto.Outbound with raw data for test-side decoding.
type outbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func sendInbound(ctx context.Context, t *testing.T, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", msgType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readEvent reads frames until the named event arrives.
func readEvent(ctx context.Context, t *testing.T, conn *websocket.Conn, event string) json.RawMessage {
	t.Helper()

	for {
		var out outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read waiting for %s: %v", event, err)
		}
		if out.Type == proto.OutboundTypeError {
			t.Fatalf("unexpected error waiting for %s: %+v", event, out.Error)
		}
		if out.Event == event {
			return out.Data
		}
	}
}

// readError reads frames until an error frame arrives and asserts its code.
func readError(ctx context.Context, t *testing.T, conn *websocket.Conn, code string) {
	t.Helper()

	for {
		var out outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read waiting for error %s: %v", code, err)
		}
		if out.Type != proto.OutboundTypeError {
			continue
		}
		if out.Error == nil || out.Error.Code != code {
			t.Fatalf("expected error code %s, got %+v", code, out.Error)
		}
		return
	}
}
