package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cwrk-planet/canvas-service/internal/domain"
	"github.com/cwrk-planet/canvas-service/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DefaultRoom — комната, в которую попадает клиент без room id в пути.
const DefaultRoom = "global"

// EventHandler — координатор событий (см. internal/service).
type EventHandler interface {
	HandleJoin(connID, roomID string, p service.JoinPayload) error
	HandleStroke(connID string, s domain.Stroke)
	HandleDrawBatch(connID string, p service.DrawBatchPayload)
	HandleUndo(connID string, p service.UndoPayload)
	HandleRedo(connID string, s domain.Stroke)
	HandleClearOwn(connID string)
	HandleClearAll(connID string)
	HandleCursor(connID string, p service.CursorPayload)
	HandleDisconnect(connID string)
}

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	handler  EventHandler

	pingEvery time.Duration
}

func NewServer(hub *Hub, handler EventHandler, pingEvery time.Duration) *Server {
	if pingEvery <= 0 {
		pingEvery = 15 * time.Second
	}
	return &Server{
		hub:     hub,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: pingEvery,
	}
}

// WS endpoint: GET /ws/rooms/{id} (и GET /ws для комнаты по умолчанию).
// connID выдаётся сервером при upgrade и живёт до разрыва соединения.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")
	if roomID == "" {
		roomID = DefaultRoom
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, uuid.NewString(), roomID)
	s.hub.Add(c)
	slog.Debug("ws connected", "room", roomID, "conn", c.ID())

	go s.writeLoop(c)
	s.readLoop(c)

	s.hub.Remove(c)
	s.handler.HandleDisconnect(c.ID())

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "room", roomID, "conn", c.ID(), "err", err)
	}
}

func (s *Server) readLoop(c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var msg service.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.dispatch(c, msg)
	}
}

// dispatch разбирает payload в закрытый тип события и зовёт координатор.
// Неразобранный payload и незнакомый type молча игнорируются: для ядра
// это поздние/битые события, не атака.
func (s *Server) dispatch(c *wsConn, msg service.Message) {
	switch msg.Type {
	case service.TypeJoin:
		var p service.JoinPayload
		if decode(msg.Payload, &p) == nil {
			if err := s.handler.HandleJoin(c.ID(), c.RoomID(), p); err != nil {
				slog.Debug("join rejected", "room", c.RoomID(), "conn", c.ID(), "err", err)
			}
		}
	case service.TypeStroke:
		var st domain.Stroke
		if decode(msg.Payload, &st) == nil {
			s.handler.HandleStroke(c.ID(), st)
		}
	case service.TypeDrawBatch:
		var p service.DrawBatchPayload
		if decode(msg.Payload, &p) == nil {
			s.handler.HandleDrawBatch(c.ID(), p)
		}
	case service.TypeUndo:
		var p service.UndoPayload
		if decode(msg.Payload, &p) == nil {
			s.handler.HandleUndo(c.ID(), p)
		}
	case service.TypeRedo:
		var st domain.Stroke
		if decode(msg.Payload, &st) == nil {
			s.handler.HandleRedo(c.ID(), st)
		}
	case service.TypeClearOwn:
		s.handler.HandleClearOwn(c.ID())
	case service.TypeClearAll:
		s.handler.HandleClearAll(c.ID())
	case service.TypeCursor:
		var p service.CursorPayload
		if decode(msg.Payload, &p) == nil {
			s.handler.HandleCursor(c.ID(), p)
		}
	default:
		// ignore
	}
}

func (s *Server) writeLoop(c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-c.closed:
			return
		}
	}
}

// --- helpers ---

func decode(payload any, dst any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}

type wsConn struct {
	conn   *websocket.Conn
	id     string
	roomID string
	sendMu chan struct{}
	closed chan struct{}
}

func newWsConn(c *websocket.Conn, id, roomID string) *wsConn {
	return &wsConn{
		conn:   c,
		id:     id,
		roomID: roomID,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg service.Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

func (c *wsConn) ID() string     { return c.id }
func (c *wsConn) RoomID() string { return c.roomID }
