package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/sjpark-dev/roomchat-server/internal/proto"
)

func TestListRoomsEndpoint(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(ctx, t, ts.URL)
	sendInbound(ctx, t, connA, proto.InboundTypeNick, proto.NickData{Nickname: "alice"})
	readEvent(ctx, t, connA, proto.EventNameNickOK)
	sendInbound(ctx, t, connA, proto.InboundTypeCreateRoom, proto.CreateRoomData{Name: "open", Capacity: 5})
	readEvent(ctx, t, connA, proto.EventNameJoined)

	connB := dialWS(ctx, t, ts.URL)
	sendInbound(ctx, t, connB, proto.InboundTypeNick, proto.NickData{Nickname: "bob"})
	readEvent(ctx, t, connB, proto.EventNameNickOK)
	sendInbound(ctx, t, connB, proto.InboundTypeCreateRoom, proto.CreateRoomData{Name: "hidden", Private: true, AccessCode: "SESAME"})
	readEvent(ctx, t, connB, proto.EventNameJoined)

	// Only public rooms appear; access codes are never serialized.
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := ts.Client().Get(ts.URL + "/api/rooms")
		if err != nil {
			t.Fatalf("list request failed: %v", err)
		}
		var body struct {
			Rooms []RoomResponse `json:"rooms"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		resp.Body.Close()

		if len(body.Rooms) == 1 && body.Rooms[0].Name == "open" {
			if body.Rooms[0].Capacity != 5 {
				t.Fatalf("unexpected room payload: %+v", body.Rooms[0])
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("room listing never converged: %+v", body.Rooms)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestListMessagesEndpoint(t *testing.T) {
	ts, _ := startTestServerWithDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(ctx, t, ts.URL)
	sendInbound(ctx, t, conn, proto.InboundTypeNick, proto.NickData{Nickname: "alice"})
	readEvent(ctx, t, conn, proto.EventNameNickOK)
	sendInbound(ctx, t, conn, proto.InboundTypeCreateRoom, proto.CreateRoomData{Name: "general"})
	readEvent(ctx, t, conn, proto.EventNameJoined)

	sendInbound(ctx, t, conn, proto.InboundTypeMsg, proto.MsgData{Text: "hello"})
	readEvent(ctx, t, conn, proto.EventNameMessage)

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := ts.Client().Get(ts.URL + "/api/rooms/general/messages?limit=10")
		if err != nil {
			t.Fatalf("messages request failed: %v", err)
		}
		var body struct {
			Messages []MessageResponse `json:"messages"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		resp.Body.Close()

		if len(body.Messages) == 1 {
			if body.Messages[0].Sender != "alice" || body.Messages[0].Text != "hello" {
				t.Fatalf("unexpected message payload: %+v", body.Messages[0])
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("message never reached the store: %+v", body.Messages)
		}
		time.Sleep(20 * time.Millisecond)
	}

	// Bad limits are rejected.
	resp, err := ts.Client().Get(ts.URL + "/api/rooms/general/messages?limit=0")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", resp.StatusCode)
	}
}

func TestListMessagesHidesPrivateRooms(t *testing.T) {
	ts, _ := startTestServerWithDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(ctx, t, ts.URL)
	sendInbound(ctx, t, conn, proto.InboundTypeNick, proto.NickData{Nickname: "alice"})
	readEvent(ctx, t, conn, proto.EventNameNickOK)
	sendInbound(ctx, t, conn, proto.InboundTypeCreateRoom, proto.CreateRoomData{Name: "vault", Private: true, AccessCode: "SESAME"})
	readEvent(ctx, t, conn, proto.EventNameJoined)

	sendInbound(ctx, t, conn, proto.InboundTypeMsg, proto.MsgData{Text: "classified"})
	readEvent(ctx, t, conn, proto.EventNameMessage)

	// Knowing a private room's name is not enough to read its history.
	resp, err := ts.Client().Get(ts.URL + "/api/rooms/vault/messages")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for a private room, got %d", resp.StatusCode)
	}

	// Unknown rooms get the same answer.
	resp, err = ts.Client().Get(ts.URL + "/api/rooms/no-such-room/messages")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown room, got %d", resp.StatusCode)
	}
}

func TestListMessagesWithoutStore(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/api/rooms/general/messages")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("expected 501 without a store, got %d", resp.StatusCode)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, 50*time.Millisecond)

	if !rl.allow() || !rl.allow() {
		t.Fatal("limiter rejected messages within the limit")
	}
	if rl.allow() {
		t.Fatal("limiter allowed a message over the limit")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.allow() {
		t.Fatal("limiter did not reset after the window")
	}

	// Zero limit disables the limiter entirely.
	unlimited := newRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if !unlimited.allow() {
			t.Fatal("disabled limiter rejected a message")
		}
	}
}
