package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/strands-coop/game/board"
)

const (
	// Time allowed to write a message to an observer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from an observer.
	pongWait = 60 * time.Second

	// Send pings to observers with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Observers only ever send control frames.
	maxMessageSize = 512
)

// SoloRoom is the observer key for progress made outside any room.
const SoloRoom = "solo"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The observer stream is served on the local control API only.
		return true
	},
}

// Message is one update pushed to observers.
type Message struct {
	RoomID   string          `json:"room_id"`
	Snapshot *board.Snapshot `json:"snapshot,omitempty"`
	Event    string          `json:"event,omitempty"`
	Data     interface{}     `json:"data,omitempty"`
}

// Observer is one connected local viewer.
type Observer struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	roomID string
}

// Hub fans room progress out to local observers, grouped by room id.
type Hub struct {
	rooms map[string]map[*Observer]bool

	broadcast  chan *Message
	register   chan *Observer
	unregister chan *Observer
	stopped    chan struct{}

	logger *slog.Logger
}

// NewHub creates a hub. Run must be started before observers connect.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:      make(map[string]map[*Observer]bool),
		broadcast:  make(chan *Message, 64),
		register:   make(chan *Observer),
		unregister: make(chan *Observer),
		stopped:    make(chan struct{}),
		logger:     logger.With("component", "hub"),
	}
}

// Run owns the observer registry until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.stopped)
			for _, observers := range h.rooms {
				for o := range observers {
					h.unregisterObserver(o)
				}
			}
			return

		case o := <-h.register:
			h.registerObserver(o)

		case o := <-h.unregister:
			h.unregisterObserver(o)

		case m := <-h.broadcast:
			h.broadcastMessage(m)
		}
	}
}

// ServeWS upgrades r and subscribes the observer to roomID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, roomID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("observer upgrade failed", "error", err)
		return
	}

	o := &Observer{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		roomID: roomID,
	}
	select {
	case h.register <- o:
	case <-h.stopped:
		conn.Close()
		return
	}

	go o.writePump()
	go o.readPump()
}

// BroadcastSnapshot pushes a progress snapshot to the observers of roomID.
func (h *Hub) BroadcastSnapshot(roomID string, snap board.Snapshot) {
	h.enqueue(&Message{RoomID: roomID, Snapshot: &snap, Event: "snapshot"})
}

// BroadcastEvent pushes a named event to the observers of roomID.
func (h *Hub) BroadcastEvent(roomID, event string, data interface{}) {
	h.enqueue(&Message{RoomID: roomID, Event: event, Data: data})
}

// enqueue never blocks the caller, which is usually the game event loop.
func (h *Hub) enqueue(m *Message) {
	select {
	case h.broadcast <- m:
	default:
		h.logger.Warn("observer broadcast dropped", "room", m.RoomID, "event", m.Event)
	}
}

func (h *Hub) registerObserver(o *Observer) {
	if h.rooms[o.roomID] == nil {
		h.rooms[o.roomID] = make(map[*Observer]bool)
	}
	h.rooms[o.roomID][o] = true

	h.logger.Debug("observer registered", "room", o.roomID, "observers", len(h.rooms[o.roomID]))
}

func (h *Hub) unregisterObserver(o *Observer) {
	if observers, ok := h.rooms[o.roomID]; ok {
		if _, ok := observers[o]; ok {
			delete(observers, o)
			close(o.send)

			if len(observers) == 0 {
				delete(h.rooms, o.roomID)
			}

			h.logger.Debug("observer unregistered", "room", o.roomID, "observers", len(observers))
		}
	}
}

func (h *Hub) broadcastMessage(m *Message) {
	data, err := json.Marshal(m)
	if err != nil {
		h.logger.Error("marshal observer message", "error", err)
		return
	}

	for o := range h.rooms[m.RoomID] {
		select {
		case o.send <- data:
		default:
			// Slow observer.
			h.unregisterObserver(o)
		}
	}
}

func (o *Observer) readPump() {
	defer func() {
		select {
		case o.hub.unregister <- o:
		case <-o.hub.stopped:
		}
		o.conn.Close()
	}()

	o.conn.SetReadLimit(maxMessageSize)
	o.conn.SetReadDeadline(time.Now().Add(pongWait))
	o.conn.SetPongHandler(func(string) error {
		o.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := o.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				o.hub.logger.Debug("observer read", "error", err)
			}
			return
		}
	}
}

func (o *Observer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		o.conn.Close()
	}()

	for {
		select {
		case message, ok := <-o.send:
			o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				o.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := o.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := o.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
