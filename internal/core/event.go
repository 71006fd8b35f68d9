package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventNickOK acknowledges a claimed nickname.
	EventNickOK EventKind = iota
	// EventRoomCreated acknowledges room creation to the creator.
	EventRoomCreated
	// EventJoined acknowledges a successful join to the joiner.
	EventJoined
	// EventLeft acknowledges leaving a room.
	EventLeft
	// EventMemberList carries the room's full member list after a change.
	EventMemberList
	// EventRoomMessage notifies room members about a chat message.
	EventRoomMessage
	// EventSystemNotice carries a server-authored notice (joins, leaves).
	EventSystemNotice
	// EventRoomList answers a public-room listing request.
	EventRoomList
	// EventError notifies the issuing client about a rejected command.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind       EventKind
	Room       string
	Nickname   string
	Members    []string
	Capacity   int
	Private    bool
	AccessCode string // set only on EventRoomCreated for the creator
	Message    Message
	Rooms      []RoomInfo
	Error      *CoreError
}

// RoomInfo is a point-in-time view of a room, safe to hand outside the
// hub loop. Access codes are never part of it.
type RoomInfo struct {
	Name      string
	Capacity  int
	Members   int
	Private   bool
	CreatedAt time.Time
}
