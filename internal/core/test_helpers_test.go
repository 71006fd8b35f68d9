package core

import (
	"context"
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustErrorCode(t *testing.T, ch <-chan *Event, code string) *Event {
	t.Helper()

	ev := mustEvent(t, ch, EventError)
	if ev.Error == nil || ev.Error.Code != code {
		t.Fatalf("expected error code %q, got %+v", code, ev)
	}
	return ev
}

// mustMembers consumes member-list events until one matches the expected
// set. Earlier lists may still be queued from previous membership
// changes.
func mustMembers(t *testing.T, ch <-chan *Event, want ...string) {
	t.Helper()

	expected := memberSet(want)
	for attempts := 0; attempts < 10; attempts++ {
		ev := mustEvent(t, ch, EventMemberList)
		if len(ev.Members) != len(want) {
			continue
		}
		got := memberSet(ev.Members)
		match := true
		for n := range expected {
			if !got[n] {
				match = false
				break
			}
		}
		if match {
			return
		}
	}
	t.Fatalf("member list never converged to %v", want)
}

// waitForRooms polls the hub's public-room snapshot until the predicate
// holds. Registrations and disconnects travel on separate channels, so
// observations need a retry window.
func waitForRooms(t *testing.T, hub *Hub, pred func([]RoomInfo) bool) []RoomInfo {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		infos, err := hub.PublicRooms(ctx)
		if err != nil {
			t.Fatalf("room snapshot failed: %v", err)
		}
		if pred(infos) {
			return infos
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("room snapshot never matched expectation")
	return nil
}

func memberSet(nicks []string) map[string]bool {
	set := make(map[string]bool, len(nicks))
	for _, n := range nicks {
		set[n] = true
	}
	return set
}

// startHub runs a hub with default limits and returns it.
func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

// joinAs registers a fresh client, claims the nickname, and joins the
// named room, failing the test on any rejection.
func joinAs(t *testing.T, hub *Hub, id, nickname, room string) *Client {
	t.Helper()

	c := NewClient(id, 0)
	hub.RegisterClient(c)
	c.Commands <- &Command{Kind: CommandSetNickname, Nickname: nickname}
	mustEvent(t, c.Events, EventNickOK)
	c.Commands <- &Command{Kind: CommandJoinRoom, Room: room}
	mustEvent(t, c.Events, EventJoined)
	return c
}
