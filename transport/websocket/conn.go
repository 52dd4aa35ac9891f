package websocket

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/checkers-backend/internal/protocol"
)

// sendQueueSize - pending outbound messages per connection; a client slow
// enough to overflow this gets its messages dropped rather than stalling the
// lobby.
const sendQueueSize = 64

// conn - one upgraded socket. All writes go through the outbound channel and
// a single write pump, since gorilla connections allow only one concurrent
// writer.
type conn struct {
	logger *slog.Logger
	ws     *websocket.Conn

	mu       sync.Mutex
	closed   bool
	outbound chan any
}

func newConn(logger *slog.Logger, ws *websocket.Conn) *conn {
	return &conn{
		logger:   logger.With("component", "conn"),
		ws:       ws,
		outbound: make(chan any, sendQueueSize),
	}
}

// Push - delivers an unsolicited message to this client. Implements the
// lobby's pusher capability.
func (that *conn) Push(push protocol.Push) {
	that.send(push)
}

func (that *conn) send(message any) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	select {
	case that.outbound <- message:
	default:
		that.logger.Warn("send queue full, dropping message")
	}
}

// writePump - drains the outbound queue onto the socket until close.
func (that *conn) writePump() {
	for message := range that.outbound {
		if err := that.ws.WriteJSON(message); err != nil {
			that.logger.Error("failed to write message", "error", err)
			return
		}
	}
}

func (that *conn) close() {
	that.mu.Lock()
	if !that.closed {
		that.closed = true
		close(that.outbound)
	}
	that.mu.Unlock()

	_ = that.ws.Close()
}
