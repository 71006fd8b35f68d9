package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandSetNickname claims a nickname for the session.
	CommandSetNickname CommandKind = iota
	// CommandCreateRoom creates a room and joins the creator to it.
	CommandCreateRoom
	// CommandJoinRoom joins a room by name.
	CommandJoinRoom
	// CommandJoinByCode joins a private room by its access code.
	CommandJoinByCode
	// CommandLeaveRoom leaves the session's current room.
	CommandLeaveRoom
	// CommandSendMessage posts a chat message to the current room.
	CommandSendMessage
	// CommandListRooms requests a snapshot of public rooms.
	CommandListRooms
)

// Command represents an action requested by a client. Fields beyond Kind
// are populated per command.
type Command struct {
	Kind       CommandKind
	Nickname   string
	Room       string
	Capacity   int
	Private    bool
	AccessCode string
	Text       string
}
