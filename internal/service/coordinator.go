package service

import (
	"log/slog"
	"strings"
	"time"

	"github.com/cwrk-planet/canvas-service/internal/canvas"
	"github.com/cwrk-planet/canvas-service/internal/domain"
	"github.com/cwrk-planet/canvas-service/internal/session"
)

// Broadcaster — порт в транспорт. Relay шлёт всем в комнате, кроме
// отправителя; Broadcast — всем, включая его.
type Broadcaster interface {
	Send(connID string, msg Message) error
	Broadcast(roomID string, msg Message)
	Relay(roomID, exceptConnID string, msg Message)
}

// Coordinator — единственное место, которое знает, какие мутации реестра
// и лога дергать на каждое входящее событие и кому рассылать результат.
// Никакого state machine на соединение нет: штрих собирается на клиенте
// и приходит одним сообщением. Порядок прихода на сервер и есть вся
// модель консистентности — события применяются строго по одному.
type Coordinator struct {
	registry *session.Registry
	log      *canvas.Log
	bc       Broadcaster

	now func() time.Time
}

func NewCoordinator(registry *session.Registry, log *canvas.Log, bc Broadcaster) *Coordinator {
	return &Coordinator{
		registry: registry,
		log:      log,
		bc:       bc,
		now:      time.Now,
	}
}

// HandleJoin регистрирует участника: ack с identity, снапшот текущих
// штрихов только новичку (если лог не пуст), свежий roster — всем.
func (c *Coordinator) HandleJoin(connID, roomID string, p JoinPayload) error {
	username := strings.TrimSpace(p.Username)
	if username == "" {
		_ = c.bc.Send(connID, Message{
			Type:    TypeError,
			Payload: ErrorPayload{Message: "username is required"},
		})
		return domain.ErrUsernameRequired
	}

	u := c.registry.AddUser(connID, username, roomID)
	slog.Info("user joined", "room", roomID, "user", u.ID, "username", u.Username, "color", u.Color)

	if err := c.bc.Send(connID, Message{
		Type: TypeJoined,
		Payload: JoinedPayload{
			UserID:   u.ID,
			Username: u.Username,
			Color:    u.Color,
			RoomID:   u.RoomID,
		},
	}); err != nil {
		slog.Warn("send join ack failed", "room", roomID, "user", u.ID, "err", err)
	}

	if strokes := c.log.Get(roomID); len(strokes) > 0 {
		if err := c.bc.Send(connID, Message{
			Type:    TypeInitStrokes,
			Payload: InitStrokesPayload{Strokes: strokes},
		}); err != nil {
			slog.Warn("send initial strokes failed", "room", roomID, "user", u.ID, "err", err)
		}
	}

	c.broadcastState(roomID)

	return nil
}

// HandleStroke штампует авторские поля сервером и дописывает штрих в лог.
func (c *Coordinator) HandleStroke(connID string, s domain.Stroke) {
	u, ok := c.registry.GetUser(connID)
	if !ok {
		slog.Debug("stroke from unregistered sender dropped", "conn", connID)
		return
	}
	if err := s.Validate(); err != nil {
		slog.Debug("invalid stroke dropped", "room", u.RoomID, "user", u.ID, "err", err)
		return
	}

	s.UserID = u.ID
	s.Username = u.Username
	s.Color = u.Color
	if s.Timestamp == 0 {
		s.Timestamp = c.now().UnixMilli()
	}

	c.log.Append(u.RoomID, s)
	c.bc.Relay(u.RoomID, connID, Message{Type: TypeStroke, Payload: s})
}

// HandleDrawBatch — эфемерная подсказка для рендера, лог не трогаем.
func (c *Coordinator) HandleDrawBatch(connID string, p DrawBatchPayload) {
	u, ok := c.registry.GetUser(connID)
	if !ok {
		return
	}
	if len(p.Segments) == 0 {
		return
	}

	c.bc.Relay(u.RoomID, connID, Message{
		Type: TypeDrawBatch,
		Payload: DrawBatchRelay{
			UserID:   u.ID,
			Username: u.Username,
			Segments: p.Segments,
		},
	})
}

// HandleUndo убирает штрих по id. Неизвестный id — не ошибка и не повод
// что-либо рассылать.
func (c *Coordinator) HandleUndo(connID string, p UndoPayload) {
	u, ok := c.registry.GetUser(connID)
	if !ok {
		return
	}
	if !c.log.RemoveByID(u.RoomID, p.StrokeID) {
		return
	}

	c.bc.Relay(u.RoomID, connID, Message{
		Type:    TypeUndo,
		Payload: UndoRelay{UserID: u.ID, StrokeID: p.StrokeID},
	})
}

// HandleRedo дописывает присланный клиентом штрих как есть. Клиент может
// прислать штрих, которого никто не отменял, — осознанно оставлено как в
// исходном протоколе, см. DESIGN.md.
func (c *Coordinator) HandleRedo(connID string, s domain.Stroke) {
	u, ok := c.registry.GetUser(connID)
	if !ok {
		return
	}
	if err := s.Validate(); err != nil {
		slog.Debug("invalid redo stroke dropped", "room", u.RoomID, "user", u.ID, "err", err)
		return
	}

	c.log.Append(u.RoomID, s)
	c.bc.Relay(u.RoomID, connID, Message{Type: TypeRedo, Payload: s})
}

func (c *Coordinator) HandleClearOwn(connID string) {
	u, ok := c.registry.GetUser(connID)
	if !ok {
		return
	}

	removed := c.log.RemoveByAuthor(u.RoomID, u.ID)
	slog.Info("user cleared own strokes", "room", u.RoomID, "user", u.ID, "removed", removed)

	c.bc.Relay(u.RoomID, connID, Message{
		Type:    TypeClearOwn,
		Payload: ClearPayload{UserID: u.ID},
	})
}

// HandleClearAll чистит весь лог комнаты. Единственное событие, которое
// рассылается и отправителю тоже: авторитетную чистку клиент сам ещё
// не применил.
func (c *Coordinator) HandleClearAll(connID string) {
	u, ok := c.registry.GetUser(connID)
	if !ok {
		return
	}

	c.log.Clear(u.RoomID)
	slog.Info("room cleared", "room", u.RoomID, "by", u.ID)

	c.bc.Broadcast(u.RoomID, Message{
		Type:    TypeClearAll,
		Payload: ClearPayload{UserID: u.ID},
	})
}

func (c *Coordinator) HandleCursor(connID string, p CursorPayload) {
	u, ok := c.registry.GetUser(connID)
	if !ok {
		return
	}

	c.registry.UpdateCursor(connID, domain.Point{X: p.X, Y: p.Y})
	c.bc.Relay(u.RoomID, connID, Message{
		Type:    TypeCursor,
		Payload: CursorRelay{UserID: u.ID, X: p.X, Y: p.Y},
	})
}

// HandleDisconnect снимает регистрацию; остальным — уведомление об уходе
// и свежий roster. Для незнакомого соединения — no-op.
func (c *Coordinator) HandleDisconnect(connID string) {
	u, ok := c.registry.RemoveUser(connID)
	if !ok {
		return
	}
	slog.Info("user left", "room", u.RoomID, "user", u.ID, "username", u.Username)

	c.bc.Relay(u.RoomID, connID, Message{
		Type:    TypePeerLeft,
		Payload: PeerLeftPayload{UserID: u.ID, Username: u.Username},
	})
	c.broadcastState(u.RoomID)
}

// UserCount — для liveness-эндпоинта.
func (c *Coordinator) UserCount() int {
	return c.registry.UserCount()
}

func (c *Coordinator) broadcastState(roomID string) {
	c.bc.Broadcast(roomID, Message{
		Type: TypeState,
		Payload: StatePayload{
			RoomID:       roomID,
			Participants: c.registry.Roster(roomID),
		},
	})
}
