package ws

import (
	"sync"

	"github.com/cwrk-planet/canvas-service/internal/service"
)

type Conn interface {
	Send(msg service.Message) error
	Close() error
	ID() string
	RoomID() string
}

// Hub держит активные соединения по комнатам и реализует
// service.Broadcaster. Рассылка best-effort: упавшая запись в один
// сокет не должна ронять рассылку остальным.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]Conn            // connID -> conn
	rooms map[string]map[string]Conn // roomID -> connID -> conn
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]Conn),
		rooms: make(map[string]map[string]Conn),
	}
}

func (h *Hub) Add(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[c.ID()] = c
	rs, ok := h.rooms[c.RoomID()]
	if !ok {
		rs = make(map[string]Conn)
		h.rooms[c.RoomID()] = rs
	}
	rs[c.ID()] = c
}

func (h *Hub) Remove(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conns, c.ID())
	if rs, ok := h.rooms[c.RoomID()]; ok {
		delete(rs, c.ID())
		if len(rs) == 0 {
			delete(h.rooms, c.RoomID())
		}
	}
}

// Send — одному соединению. Незнакомый connID — не ошибка (stale).
func (h *Hub) Send(connID string, msg service.Message) error {
	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()

	if !ok {
		return nil
	}
	return c.Send(msg)
}

// Broadcast — всем в комнате, включая отправителя.
func (h *Hub) Broadcast(roomID string, msg service.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if rs, ok := h.rooms[roomID]; ok {
		for _, c := range rs {
			_ = c.Send(msg) // best-effort
		}
	}
}

// Relay — всем в комнате, кроме отправителя.
func (h *Hub) Relay(roomID, exceptConnID string, msg service.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if rs, ok := h.rooms[roomID]; ok {
		for id, c := range rs {
			if id == exceptConnID {
				continue
			}
			_ = c.Send(msg)
		}
	}
}
