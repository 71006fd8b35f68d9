package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// RoomRecord is the durable view of a live room, kept for clients that
// poll over HTTP instead of subscribing to push events.
type RoomRecord struct {
	Name        string
	Capacity    int
	Private     bool
	MemberCount int
	CreatedAt   time.Time
}

// MessageRecord is a persisted copy of a broadcast message. Records live
// only as long as their room does.
type MessageRecord struct {
	ID        int64
	Room      string
	Sender    string
	Text      string
	CreatedAt time.Time
}

// Store persists room and message records for polling retrieval. The hub
// treats every write as best-effort: a store failure never blocks or
// aborts a broadcast.
type Store interface {
	SaveRoom(ctx context.Context, rec RoomRecord) error
	DeleteRoom(ctx context.Context, name string) error
	SetRoomMemberCount(ctx context.Context, name string, count int) error
	ListRooms(ctx context.Context) ([]RoomRecord, error)

	SaveMessage(ctx context.Context, rec MessageRecord) (int64, error)
	ListMessages(ctx context.Context, room string, limit int) ([]MessageRecord, error)

	Close() error
}
