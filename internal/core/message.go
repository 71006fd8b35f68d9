package core

import "time"

// Message is the domain model for a chat message. Messages are ephemeral:
// the core hands them to subscribers and forgets them.
type Message struct {
	Room      string
	From      string
	Text      string
	CreatedAt time.Time
}
