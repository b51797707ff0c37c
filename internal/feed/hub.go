// Package feed streams stage events to websocket clients. Each client gets
// a snapshot of the stage on connect followed by one message per applied
// update. Clients may send {"op":"play"} or {"op":"stop"} to drive the
// stage when the hub has a controller.
package feed

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-blockstage/internal/stage"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Per-client buffer; events beyond it are dropped for that client
	subscriberBuffer = 256
)

// Controller is the play/stop surface a client may drive.
type Controller interface {
	PlayAll() int
	StopAll()
}

// command is a message received from a client.
type command struct {
	Op string `json:"op"`
}

type subscriber chan Message

// Hub fans store events out to websocket clients.
type Hub struct {
	store    *stage.Store
	control  Controller // Optional
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[subscriber]struct{}
	closed      bool

	unsubscribe func()
}

// NewHub creates a hub subscribed to the store. control may be nil, in
// which case client commands are ignored. A nil logger discards output.
func NewHub(store *stage.Store, control Controller, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Hub{
		store:   store,
		control: control,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Local tool; allow any origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subscribers: make(map[subscriber]struct{}),
	}
	h.unsubscribe = store.Subscribe(h.broadcast)
	return h
}

// Close detaches the hub from the store and disconnects every client.
func (h *Hub) Close() {
	h.unsubscribe()

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subscribers {
		delete(h.subscribers, sub)
		close(sub)
	}
}

// SubscriberCount returns the number of connected clients.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *Hub) subscribe() (subscriber, bool) {
	ch := make(subscriber, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	h.subscribers[ch] = struct{}{}
	return ch, true
}

func (h *Hub) unsubscribeClient(sub subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub)
	}
}

// broadcast sends an event to all subscribers.
// Non-blocking: if a subscriber's buffer is full, the event is dropped for that subscriber.
func (h *Hub) broadcast(ev stage.Event) {
	msg := eventMessage(ev)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub <- msg:
		default:
		}
	}
}

// ServeHTTP upgrades the connection and streams events until the client
// goes away or the hub is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	// Subscribe before the snapshot so no event falls in between. Events
	// queued ahead of the snapshot are already part of it and are skipped.
	sub, ok := h.subscribe()
	if !ok {
		return
	}
	defer h.unsubscribeClient(sub)

	actors, seen := h.store.Snapshot()
	if err := h.write(conn, snapshotMessage(actors, seen)); err != nil {
		h.logger.Debug("ws write snapshot failed", "err", err)
		return
	}
	h.logger.Info("feed client connected", "remote", r.RemoteAddr)

	done := make(chan struct{})
	go h.readLoop(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return

		case msg, ok := <-sub:
			if !ok {
				return
			}
			if msg.Seq <= seen {
				continue
			}
			if err := h.write(conn, msg); err != nil {
				h.logger.Debug("ws write event failed", "err", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) write(conn *websocket.Conn, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// readLoop handles pongs and client commands.
func (h *Hub) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			h.logger.Debug("ignoring malformed command", "err", err)
			continue
		}
		h.handle(cmd)
	}
}

func (h *Hub) handle(cmd command) {
	if h.control == nil {
		return
	}
	switch cmd.Op {
	case "play":
		n := h.control.PlayAll()
		h.logger.Info("feed play", "started", n)
	case "stop":
		h.control.StopAll()
		h.logger.Info("feed stop")
	default:
		h.logger.Debug("unknown command", "op", cmd.Op)
	}
}
