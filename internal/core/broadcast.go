package core

import "github.com/rs/zerolog"

// Broadcaster fans events out to room members. Enqueueing never blocks:
// when a recipient's queue is full the oldest queued event is discarded
// so a slow consumer cannot stall the room. Within one room, events are
// enqueued in the order broadcasts are submitted.
type Broadcaster struct {
	log zerolog.Logger
}

// NewBroadcaster builds a broadcaster. A nil logger disables logging.
func NewBroadcaster(logger *zerolog.Logger) *Broadcaster {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Broadcaster{log: *logger}
}

// Broadcast delivers the event to every current member of the room. The
// member set is read at call time, so a member removed before the call
// never receives it.
func (b *Broadcaster) Broadcast(room *Room, ev *Event) {
	room.forEachMember(func(c *Client, _ string) {
		b.Send(c, ev)
	})
}

// Send enqueues one event for one client, dropping the oldest queued
// event on overflow.
func (b *Broadcaster) Send(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
		return
	default:
	}

	select {
	case dropped := <-c.Events:
		b.log.Debug().
			Str("client_id", c.ID).
			Int("dropped_kind", int(dropped.Kind)).
			Msg("event queue full, dropped oldest")
	default:
	}

	select {
	case c.Events <- ev:
	default:
		b.log.Warn().Str("client_id", c.ID).Msg("event queue still full, event lost")
	}
}
