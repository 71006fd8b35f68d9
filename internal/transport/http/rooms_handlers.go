package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sjpark-dev/roomchat-server/internal/core"
	"github.com/sjpark-dev/roomchat-server/internal/store"
)

// RoomHandlers serves the polling API: a live public-room snapshot from
// the hub and recent messages from the durable store.
type RoomHandlers struct {
	hub   *core.Hub
	store store.Store
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance. st may be nil
// when persistence is disabled.
func NewRoomHandlers(hub *core.Hub, st store.Store, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{hub: hub, store: st, log: logger}
}

// ErrorResponse is the JSON error body for the polling API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Members   int    `json:"members"`
	CreatedAt string `json:"created_at"`
}

// MessageResponse represents a persisted message in API responses.
type MessageResponse struct {
	ID        int64  `json:"id"`
	Room      string `json:"room"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// ListRooms handles listing public rooms.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	infos, err := h.hub.PublicRooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to snapshot rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]RoomResponse, 0, len(infos))
	for _, info := range infos {
		out = append(out, RoomResponse{
			Name:      info.Name,
			Capacity:  info.Capacity,
			Members:   info.Members,
			CreatedAt: info.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"rooms": out})
}

// ListMessages handles polling retrieval of recent room messages.
// Only live public rooms are served; private rooms stay gated behind
// their access code and never appear here.
// GET /api/rooms/:name/messages?limit=N
func (h *RoomHandlers) ListMessages(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: "message persistence is disabled"})
		return
	}

	name := c.Param("name")
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be 1-500"})
			return
		}
		limit = n
	}

	infos, err := h.hub.PublicRooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to snapshot rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	visible := false
	for _, info := range infos {
		if info.Name == name {
			visible = true
			break
		}
	}
	if !visible {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	records, err := h.store.ListMessages(c.Request.Context(), name, limit)
	if err != nil {
		h.log.Error().Err(err).Str("room", name).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	out := make([]MessageResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, MessageResponse{
			ID:        rec.ID,
			Room:      rec.Room,
			Sender:    rec.Sender,
			Text:      rec.Text,
			CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}
