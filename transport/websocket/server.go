package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/checkers-backend/internal/entity"
	"github.com/rocketscienceinc/checkers-backend/internal/protocol"
)

// directory - the lobby as the gateway sees it: connect, route, tear down.
type directory interface {
	Connect(pusher protocol.Pusher) *entity.Client
	Disconnect(clientID string)
	Dispatch(clientID string, req protocol.Request) protocol.Response
}

type Server struct {
	logger   *slog.Logger
	lobby    directory
	upgrader websocket.Upgrader
}

func New(logger *slog.Logger, lobby directory) *Server {
	return &Server{
		logger: logger.With("component", "websocket"),
		lobby:  lobby,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.handleConnection(w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 0, // connections are long-lived
		IdleTimeout: 0,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// handleConnection - upgrades the connection, wires it into the lobby and
// runs the read loop until the socket closes.
func (that *Server) handleConnection(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleConnection")

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := newConn(that.logger, ws)
	record := that.lobby.Connect(conn)

	log = log.With("clientID", record.ID)
	log.Info("websocket connection established")

	go conn.writePump()

	that.readLoop(conn, record.ID)

	that.lobby.Disconnect(record.ID)
	conn.close()

	log.Info("websocket connection closed")
}

// readLoop - decodes one request envelope at a time and dispatches it. Each
// request gets exactly one response, written through the connection's send
// queue so responses and pushes never interleave mid-frame.
func (that *Server) readLoop(conn *conn, clientID string) {
	log := that.logger.With("method", "readLoop", "clientID", clientID)

	for {
		var req protocol.Request

		if err := conn.ws.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}

			return
		}

		if req.Cmd == "" {
			conn.send(protocol.Reject(req.ID, "invalid request"))
			continue
		}

		conn.send(that.lobby.Dispatch(clientID, req))
	}
}
