package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sjpark-dev/roomchat-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRoomRecordLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := store.RoomRecord{
		Name:        "lobby",
		Capacity:    10,
		Private:     false,
		MemberCount: 1,
		CreatedAt:   time.Now(),
	}
	if err := s.SaveRoom(ctx, rec); err != nil {
		t.Fatalf("save room: %v", err)
	}

	// Saving again updates in place.
	rec.MemberCount = 3
	if err := s.SaveRoom(ctx, rec); err != nil {
		t.Fatalf("re-save room: %v", err)
	}

	if err := s.SetRoomMemberCount(ctx, "lobby", 2); err != nil {
		t.Fatalf("set member count: %v", err)
	}
	if err := s.SetRoomMemberCount(ctx, "ghost", 2); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown room, got %v", err)
	}

	rooms, err := s.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].Name != "lobby" || rooms[0].MemberCount != 2 {
		t.Fatalf("unexpected listing: %+v", rooms)
	}

	if err := s.DeleteRoom(ctx, "lobby"); err != nil {
		t.Fatalf("delete room: %v", err)
	}
	rooms, err = s.ListRooms(ctx)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 0 {
		t.Fatalf("room survived deletion: %+v", rooms)
	}
}

func TestMessagesFollowRoomLifetime(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	room := store.RoomRecord{Name: "general", Capacity: 10, CreatedAt: time.Now()}
	if err := s.SaveRoom(ctx, room); err != nil {
		t.Fatalf("save room: %v", err)
	}

	for i, text := range []string{"first", "second", "third"} {
		id, err := s.SaveMessage(ctx, store.MessageRecord{
			Room:      "general",
			Sender:    "alice",
			Text:      text,
			CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("save message %d: %v", i, err)
		}
		if id == 0 {
			t.Fatalf("message %d got zero id", i)
		}
	}

	// Chronological order, newest included.
	msgs, err := s.ListMessages(ctx, "general", 10)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 3 || msgs[0].Text != "first" || msgs[2].Text != "third" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}

	// The limit keeps the most recent entries.
	msgs, err = s.ListMessages(ctx, "general", 2)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Text != "second" || msgs[1].Text != "third" {
		t.Fatalf("unexpected limited messages: %+v", msgs)
	}

	// Deleting the room removes its messages.
	if err := s.DeleteRoom(ctx, "general"); err != nil {
		t.Fatalf("delete room: %v", err)
	}
	msgs, err = s.ListMessages(ctx, "general", 10)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("messages survived room deletion: %+v", msgs)
	}
}
