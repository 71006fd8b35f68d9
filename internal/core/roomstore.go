package core

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/sjpark-dev/roomchat-server/internal/utils"
)

const (
	minRoomNameLen = 2
	maxRoomNameLen = 50

	generatedCodeLen = 6
)

// Limits carries the tunable bounds of the coordination engine.
type Limits struct {
	MaxRoomCapacity     int
	DefaultRoomCapacity int
	MaxMessageLength    int
	MinAccessCodeLength int
	SendQueueSize       int
}

// DefaultLimits returns the built-in bounds used when no config overrides them.
func DefaultLimits() Limits {
	return Limits{
		MaxRoomCapacity:     50,
		DefaultRoomCapacity: 10,
		MaxMessageLength:    100,
		MinAccessCodeLength: 4,
		SendQueueSize:       DefaultQueueSize,
	}
}

// RoomStore owns the mapping from room name to Room. Room names are
// unique among live rooms, compared exactly. Not safe for concurrent
// use; the hub loop is the only caller.
type RoomStore struct {
	limits Limits
	rooms  map[string]*Room
}

// NewRoomStore returns an empty store with the given limits.
func NewRoomStore(limits Limits) *RoomStore {
	return &RoomStore{
		limits: limits,
		rooms:  make(map[string]*Room),
	}
}

// Create validates the request and registers a new room. For private
// rooms an empty access code is auto-generated. The plaintext code is
// returned exactly once here; the store only keeps its hash.
func (s *RoomStore) Create(name string, capacity int, private bool, accessCode string) (*Room, string, *CoreError) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < minRoomNameLen || n > maxRoomNameLen {
		return nil, "", coreError(ErrCodeRoomNameInvalid, "room name must be 2-50 characters")
	}
	if _, exists := s.rooms[name]; exists {
		return nil, "", coreError(ErrCodeRoomExists, "a room with this name already exists")
	}
	if capacity == 0 {
		capacity = s.limits.DefaultRoomCapacity
	}
	if capacity < 2 || capacity > s.limits.MaxRoomCapacity {
		return nil, "", coreError(ErrCodeCapacityInvalid, "room capacity is out of range")
	}

	var codeHash []byte
	code := strings.TrimSpace(accessCode)
	if private {
		if code == "" {
			code = utils.NewAccessCode(generatedCodeLen)
		}
		if utf8.RuneCountInString(code) < s.limits.MinAccessCodeLength {
			return nil, "", coreError(ErrCodeAccessCodeRequired, "private rooms require an access code")
		}
		// MinCost: codes are short shared room secrets, not passwords,
		// and join-by-code compares against every private room on the
		// hub loop.
		hash, err := bcrypt.GenerateFromPassword([]byte(strings.ToUpper(code)), bcrypt.MinCost)
		if err != nil {
			return nil, "", coreError(ErrCodeInternal, "failed to protect access code")
		}
		codeHash = hash
	} else {
		code = ""
	}

	room := NewRoom(name, capacity, private, codeHash)
	s.rooms[name] = room
	return room, code, nil
}

// Find returns the live room with the given name.
func (s *RoomStore) Find(name string) (*Room, bool) {
	room, ok := s.rooms[name]
	return room, ok
}

// FindByAccessCode returns the private room opened by the given code.
// Matching is case-insensitive.
func (s *RoomStore) FindByAccessCode(code string) (*Room, bool) {
	if strings.TrimSpace(code) == "" {
		return nil, false
	}
	for _, room := range s.rooms {
		if room.MatchesCode(code) {
			return room, true
		}
	}
	return nil, false
}

// ReclaimIfEmpty deletes the room iff its member set is empty. This is
// the sole deletion path; rooms never expire by time or idle policy.
// Returns true if the room was deleted.
func (s *RoomStore) ReclaimIfEmpty(name string) bool {
	room, ok := s.rooms[name]
	if !ok || !room.Empty() {
		return false
	}
	delete(s.rooms, name)
	return true
}

// List returns rooms matching the predicate. A nil predicate matches
// everything.
func (s *RoomStore) List(pred func(*Room) bool) []*Room {
	out := make([]*Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		if pred == nil || pred(room) {
			out = append(out, room)
		}
	}
	return out
}

// Len reports the number of live rooms.
func (s *RoomStore) Len() int {
	return len(s.rooms)
}
