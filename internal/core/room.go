package core

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Room is a single chat room's authoritative state: member set, capacity,
// visibility, and (for private rooms) the access code hash. Capacity and
// visibility are immutable after creation. Not safe for concurrent use;
// all mutation happens on the hub loop.
type Room struct {
	Name      string
	Capacity  int
	Private   bool
	CreatedAt time.Time

	codeHash []byte
	members  map[*Client]string
}

// NewRoom constructs a room with no members. codeHash must be non-nil
// iff the room is private.
func NewRoom(name string, capacity int, private bool, codeHash []byte) *Room {
	return &Room{
		Name:      name,
		Capacity:  capacity,
		Private:   private,
		CreatedAt: time.Now(),
		codeHash:  codeHash,
		members:   make(map[*Client]string),
	}
}

// Join adds the client to the member set under the given nickname.
func (r *Room) Join(c *Client, nickname string) *CoreError {
	if _, ok := r.members[c]; ok {
		return nil
	}
	if len(r.members) >= r.Capacity {
		return coreError(ErrCodeRoomFull, "room is full")
	}
	for _, existing := range r.members {
		if existing == nickname {
			return coreError(ErrCodeNicknameInUse, "nickname is already in use in this room")
		}
	}
	r.members[c] = nickname
	if len(r.members) > r.Capacity {
		// Should be unreachable with serialized mutation; undo and fail
		// rather than leave the room over capacity.
		delete(r.members, c)
		return coreError(ErrCodeInternal, "room capacity invariant violated")
	}
	return nil
}

// Leave removes the client from the member set and reports the nickname
// it was joined under. A no-op for non-members.
func (r *Room) Leave(c *Client) (string, bool) {
	nick, ok := r.members[c]
	if !ok {
		return "", false
	}
	delete(r.members, c)
	return nick, true
}

// Has reports whether the client is a member.
func (r *Room) Has(c *Client) bool {
	_, ok := r.members[c]
	return ok
}

// MemberNicknames returns a snapshot of member nicknames. Order is not
// specified; consumers must treat it as a set.
func (r *Room) MemberNicknames() []string {
	nicks := make([]string, 0, len(r.members))
	for _, nick := range r.members {
		nicks = append(nicks, nick)
	}
	return nicks
}

// MemberCount returns the current number of members.
func (r *Room) MemberCount() int {
	return len(r.members)
}

// Empty returns true if no clients are in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// MatchesCode reports whether the given access code opens this room.
// Codes are compared case-insensitively.
func (r *Room) MatchesCode(code string) bool {
	if !r.Private || len(r.codeHash) == 0 {
		return false
	}
	normalized := strings.ToUpper(strings.TrimSpace(code))
	return bcrypt.CompareHashAndPassword(r.codeHash, []byte(normalized)) == nil
}

// Info returns a point-in-time view of the room for listings.
func (r *Room) Info() RoomInfo {
	return RoomInfo{
		Name:      r.Name,
		Capacity:  r.Capacity,
		Members:   len(r.members),
		Private:   r.Private,
		CreatedAt: r.CreatedAt,
	}
}

// forEachMember visits the current member set. The visit order is map
// iteration order.
func (r *Room) forEachMember(fn func(c *Client, nickname string)) {
	for c, nick := range r.members {
		fn(c, nick)
	}
}
