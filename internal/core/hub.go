package core

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/sjpark-dev/roomchat-server/internal/store"
)

// How long a best-effort durable-store write may take before it is
// abandoned.
const storeWriteTimeout = 2 * time.Second

// ErrHubStopped is returned for queries made after Run has exited.
var ErrHubStopped = errors.New("hub stopped")

type clientCommand struct {
	client *Client
	cmd    *Command
}

type roomQuery struct {
	publicOnly bool
	reply      chan []RoomInfo
}

// Hub is the session gateway. It owns the session registry and the room
// store, and serializes every mutation on its Run loop: transports feed
// it clients and commands, and it answers with events fanned out through
// the broadcaster. The durable store is optional; a nil store disables
// persistence.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	queries    chan roomQuery
	done       chan struct{}

	registry *Registry
	rooms    *RoomStore
	caster   *Broadcaster
	clients  map[*Client]struct{}

	limits Limits
	store  store.Store
	log    zerolog.Logger
}

// NewHub constructs a hub with default limits. Both arguments may be nil.
func NewHub(st store.Store, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	limits := DefaultLimits()
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand, 64),
		queries:    make(chan roomQuery),
		done:       make(chan struct{}),
		registry:   NewRegistry(),
		rooms:      NewRoomStore(limits),
		caster:     NewBroadcaster(logger),
		clients:    make(map[*Client]struct{}),
		limits:     limits,
		store:      st,
		log:        *logger,
	}
}

// SetLimits overrides the engine bounds. Must be called before Run.
func (h *Hub) SetLimits(limits Limits) {
	h.limits = limits
	h.rooms = NewRoomStore(limits)
}

// Limits returns the engine bounds in effect.
func (h *Hub) Limits() Limits {
	return h.limits
}

// RegisterClient hands a new connection to the hub. A no-op once the
// hub has stopped.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient signals a disconnect. Safe to call more than once
// for the same client; cleanup runs exactly once. Returns without
// blocking once the hub has stopped.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// PublicRooms returns a consistent snapshot of all public rooms, sorted
// by name. The snapshot is taken on the hub loop so no room is observed
// mid-mutation.
func (h *Hub) PublicRooms(ctx context.Context) ([]RoomInfo, error) {
	q := roomQuery{publicOnly: true, reply: make(chan []RoomInfo, 1)}
	select {
	case h.queries <- q:
	case <-h.done:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case infos := <-q.reply:
		return infos, nil
	case <-h.done:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run processes registrations, commands, and queries until the context
// is cancelled. All state mutation happens here.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.log.Debug().Str("client_id", c.ID).Msg("client registered")
			go h.forward(ctx, c)
		case c := <-h.unregister:
			h.disconnect(c)
		case cc := <-h.commands:
			if _, ok := h.clients[cc.client]; !ok {
				continue
			}
			h.handle(cc.client, cc.cmd)
		case q := <-h.queries:
			q.reply <- h.listRooms(q.publicOnly)
		}
	}
}

// forward pumps one client's commands into the hub loop until the
// client is disconnected or the hub stops.
func (h *Hub) forward(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.commands <- clientCommand{client: c, cmd: cmd}:
			case <-c.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *Hub) handle(c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandSetNickname:
		h.handleSetNickname(c, cmd)
	case CommandCreateRoom:
		h.handleCreateRoom(c, cmd)
	case CommandJoinRoom:
		h.handleJoinRoom(c, cmd)
	case CommandJoinByCode:
		h.handleJoinByCode(c, cmd)
	case CommandLeaveRoom:
		h.handleLeaveRoom(c)
	case CommandSendMessage:
		h.handleSendMessage(c, cmd)
	case CommandListRooms:
		h.caster.Send(c, &Event{Kind: EventRoomList, Rooms: h.listRooms(true)})
	default:
		h.sendError(c, coreError(ErrCodeBadRequest, "unknown command"))
	}
}

func (h *Hub) handleSetNickname(c *Client, cmd *Command) {
	if err := h.registry.Assign(c, cmd.Nickname); err != nil {
		h.sendError(c, err)
		return
	}
	h.log.Info().Str("client_id", c.ID).Str("nickname", c.nickname).Msg("nickname set")
	h.caster.Send(c, &Event{Kind: EventNickOK, Nickname: c.nickname})
}

func (h *Hub) handleCreateRoom(c *Client, cmd *Command) {
	nick, ok := h.requireNickname(c)
	if !ok {
		return
	}
	room, code, err := h.rooms.Create(cmd.Room, cmd.Capacity, cmd.Private, cmd.AccessCode)
	if err != nil {
		h.sendError(c, err)
		return
	}
	h.log.Info().
		Str("room", room.Name).
		Int("capacity", room.Capacity).
		Bool("private", room.Private).
		Msg("room created")
	h.persistRoom(room)
	h.caster.Send(c, &Event{
		Kind:       EventRoomCreated,
		Room:       room.Name,
		Capacity:   room.Capacity,
		Private:    room.Private,
		AccessCode: code,
	})
	h.joinRoom(c, nick, room)
}

func (h *Hub) handleJoinRoom(c *Client, cmd *Command) {
	nick, ok := h.requireNickname(c)
	if !ok {
		return
	}
	room, found := h.rooms.Find(strings.TrimSpace(cmd.Room))
	if !found {
		h.sendError(c, coreError(ErrCodeRoomNotFound, "room does not exist"))
		return
	}
	h.joinRoom(c, nick, room)
}

func (h *Hub) handleJoinByCode(c *Client, cmd *Command) {
	nick, ok := h.requireNickname(c)
	if !ok {
		return
	}
	room, found := h.rooms.FindByAccessCode(cmd.AccessCode)
	if !found {
		h.sendError(c, coreError(ErrCodeInvalidAccessCode, "invalid access code"))
		return
	}
	h.joinRoom(c, nick, room)
}

// joinRoom adds the client to the room. On success the joiner gets an
// ack and every member, joiner included, sees the updated member list
// and a join notice. A rejected join leaves all room state untouched,
// including the client's current room.
func (h *Hub) joinRoom(c *Client, nick string, room *Room) {
	if room.Has(c) {
		h.caster.Send(c, &Event{Kind: EventJoined, Room: room.Name, Members: room.MemberNicknames()})
		return
	}
	if err := room.Join(c, nick); err != nil {
		if err.Code == ErrCodeInternal {
			h.log.Error().Str("room", room.Name).Msg("room capacity invariant violated")
		}
		h.sendError(c, err)
		return
	}
	if c.room != "" && c.room != room.Name {
		h.leaveCurrentRoom(c)
	}
	c.room = room.Name
	members := room.MemberNicknames()
	h.caster.Send(c, &Event{Kind: EventJoined, Room: room.Name, Members: members})
	h.caster.Broadcast(room, &Event{Kind: EventMemberList, Room: room.Name, Members: members})
	h.caster.Broadcast(room, &Event{
		Kind: EventSystemNotice,
		Room: room.Name,
		Message: Message{
			Room:      room.Name,
			Text:      nick + " joined the room",
			CreatedAt: time.Now(),
		},
	})
	h.log.Info().Str("room", room.Name).Str("nickname", nick).Msg("client joined room")
	h.persistMemberCount(room)
}

func (h *Hub) handleLeaveRoom(c *Client) {
	name, ok := h.leaveCurrentRoom(c)
	if !ok {
		h.sendError(c, coreError(ErrCodeNotInRoom, "not in a room"))
		return
	}
	h.caster.Send(c, &Event{Kind: EventLeft, Room: name})
}

// leaveCurrentRoom removes the client from its room, notifies the
// remaining members, and reclaims the room if it became empty.
func (h *Hub) leaveCurrentRoom(c *Client) (string, bool) {
	if c.room == "" {
		return "", false
	}
	name := c.room
	c.room = ""

	room, found := h.rooms.Find(name)
	if !found {
		return "", false
	}
	nick, was := room.Leave(c)
	if !was {
		return "", false
	}

	h.caster.Broadcast(room, &Event{Kind: EventMemberList, Room: name, Members: room.MemberNicknames()})
	h.caster.Broadcast(room, &Event{
		Kind: EventSystemNotice,
		Room: name,
		Message: Message{
			Room:      name,
			Text:      nick + " left the room",
			CreatedAt: time.Now(),
		},
	})
	h.log.Info().Str("room", name).Str("nickname", nick).Msg("client left room")

	if h.rooms.ReclaimIfEmpty(name) {
		h.log.Info().Str("room", name).Msg("empty room reclaimed")
		h.deleteRoomRecord(name)
	} else {
		h.persistMemberCount(room)
	}
	return name, true
}

func (h *Hub) handleSendMessage(c *Client, cmd *Command) {
	if c.room == "" {
		h.sendError(c, coreError(ErrCodeNotInRoom, "join a room before sending messages"))
		return
	}
	room, found := h.rooms.Find(c.room)
	if !found || !room.Has(c) {
		c.room = ""
		h.sendError(c, coreError(ErrCodeNotInRoom, "join a room before sending messages"))
		return
	}

	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		h.sendError(c, coreError(ErrCodeMessageEmpty, "message is empty"))
		return
	}
	if utf8.RuneCountInString(text) > h.limits.MaxMessageLength {
		h.sendError(c, coreError(ErrCodeMessageTooLong, "message exceeds the length limit"))
		return
	}

	nick, _ := h.registry.Lookup(c)
	msg := Message{Room: room.Name, From: nick, Text: text, CreatedAt: time.Now()}
	h.caster.Broadcast(room, &Event{Kind: EventRoomMessage, Room: room.Name, Message: msg})
	h.persistMessage(msg)
}

func (h *Hub) requireNickname(c *Client) (string, bool) {
	nick, ok := h.registry.Lookup(c)
	if !ok {
		h.sendError(c, coreError(ErrCodeNoNickname, "set a nickname first"))
		return "", false
	}
	return nick, true
}

func (h *Hub) sendError(c *Client, err *CoreError) {
	h.caster.Send(c, &Event{Kind: EventError, Error: err})
}

// disconnect runs the terminal cleanup for a connection exactly once.
func (h *Hub) disconnect(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	h.leaveCurrentRoom(c)
	h.registry.Release(c)
	delete(h.clients, c)
	close(c.done)
	close(c.Events)
	h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
}

func (h *Hub) shutdown() {
	close(h.done)
	for c := range h.clients {
		h.registry.Release(c)
		delete(h.clients, c)
		close(c.done)
		close(c.Events)
	}
	h.log.Info().Msg("hub stopped")
}

func (h *Hub) listRooms(publicOnly bool) []RoomInfo {
	rooms := h.rooms.List(func(r *Room) bool {
		return !publicOnly || !r.Private
	})
	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, r.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Durable-store writes are best-effort: failures are logged and the
// in-memory state stays authoritative.

func (h *Hub) persistRoom(room *Room) {
	if h.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeWriteTimeout)
	defer cancel()
	rec := store.RoomRecord{
		Name:        room.Name,
		Capacity:    room.Capacity,
		Private:     room.Private,
		MemberCount: room.MemberCount(),
		CreatedAt:   room.CreatedAt,
	}
	if err := h.store.SaveRoom(ctx, rec); err != nil {
		h.log.Warn().Err(err).Str("room", room.Name).Msg("failed to persist room")
	}
}

func (h *Hub) persistMemberCount(room *Room) {
	if h.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeWriteTimeout)
	defer cancel()
	if err := h.store.SetRoomMemberCount(ctx, room.Name, room.MemberCount()); err != nil {
		h.log.Warn().Err(err).Str("room", room.Name).Msg("failed to persist member count")
	}
}

func (h *Hub) deleteRoomRecord(name string) {
	if h.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeWriteTimeout)
	defer cancel()
	if err := h.store.DeleteRoom(ctx, name); err != nil {
		h.log.Warn().Err(err).Str("room", name).Msg("failed to delete room record")
	}
}

func (h *Hub) persistMessage(msg Message) {
	if h.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeWriteTimeout)
	defer cancel()
	rec := store.MessageRecord{
		Room:      msg.Room,
		Sender:    msg.From,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
	if _, err := h.store.SaveMessage(ctx, rec); err != nil {
		h.log.Warn().Err(err).Str("room", msg.Room).Msg("failed to persist message")
	}
}
