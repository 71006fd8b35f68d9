package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeNick       = "nick"
	InboundTypeCreateRoom = "create_room"
	InboundTypeJoin       = "join"
	InboundTypeJoinCode   = "join_code"
	InboundTypeLeave      = "leave"
	InboundTypeMsg        = "msg"
	InboundTypeListRooms  = "list_rooms"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// NickData claims a nickname for the connection.
type NickData struct {
	Nickname string `json:"nickname"`
}

// CreateRoomData requests a new room. Capacity 0 means the server
// default; an empty access code on a private room is auto-generated.
type CreateRoomData struct {
	Name       string `json:"name"`
	Capacity   int    `json:"capacity,omitempty"`
	Private    bool   `json:"private,omitempty"`
	AccessCode string `json:"access_code,omitempty"`
}

// JoinData requests to join a room by name.
type JoinData struct {
	Room string `json:"room"`
}

// JoinCodeData requests to join a private room by access code.
type JoinCodeData struct {
	AccessCode string `json:"access_code"`
}

// MsgData is a chat message for the connection's current room.
type MsgData struct {
	Text string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Outbound event names.
const (
	EventNameNickOK      = "nick_ok"
	EventNameRoomCreated = "room_created"
	EventNameJoined      = "joined"
	EventNameLeft        = "left"
	EventNameMemberList  = "member_list"
	EventNameMessage     = "message"
	EventNameSystem      = "system"
	EventNameRoomList    = "room_list"
)

// EventNickOK acknowledges the accepted nickname.
type EventNickOK struct {
	Nickname string `json:"nickname"`
}

// EventRoomCreated acknowledges room creation. The access code is echoed
// exactly once, to the creator.
type EventRoomCreated struct {
	Room       string `json:"room"`
	Capacity   int    `json:"capacity"`
	Private    bool   `json:"private"`
	AccessCode string `json:"access_code,omitempty"`
}

// EventJoined acknowledges a successful join with the member snapshot.
type EventJoined struct {
	Room    string   `json:"room"`
	Members []string `json:"members"`
}

// EventLeft acknowledges leaving a room.
type EventLeft struct {
	Room string `json:"room"`
}

// EventMemberList carries the room's full member list after a change.
type EventMemberList struct {
	Room    string   `json:"room"`
	Members []string `json:"members"`
}

// EventMessage is a chat message delivered to room members.
type EventMessage struct {
	Room   string `json:"room"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

// EventSystem is a server-authored notice (joins, leaves).
type EventSystem struct {
	Room string `json:"room"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
}

// RoomSummary is one entry of a room listing. Private rooms never appear
// here and access codes are never serialized.
type RoomSummary struct {
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Members   int    `json:"members"`
	CreatedAt int64  `json:"created_at"`
}

// EventRoomList answers a list_rooms request.
type EventRoomList struct {
	Rooms []RoomSummary `json:"rooms"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
