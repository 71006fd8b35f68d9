package core

// DefaultQueueSize bounds a client's channels when no explicit size is given.
const DefaultQueueSize = 32

// Client is one live connection as seen by the core layer. The transport
// feeds Commands and drains Events; nickname and room are owned by the hub
// loop and must not be touched from other goroutines.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	// done is closed by the hub when the client is disconnected, so the
	// command forwarder can stop waiting on Commands.
	done chan struct{}

	nickname string
	room     string
}

// NewClient constructs a client with bounded command and event queues.
// queueSize <= 0 falls back to DefaultQueueSize.
func NewClient(id string, queueSize int) *Client {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, queueSize),
		Events:   make(chan *Event, queueSize),
		done:     make(chan struct{}),
	}
}
