package session

import (
	"sort"
	"sync"
	"time"

	"github.com/cwrk-planet/canvas-service/internal/domain"
)

// Palette — фиксированная палитра участников. Индекс растёт монотонно и
// никогда не сбрасывается: после исчерпания палитры цвета переиспользуются.
var Palette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#46f0f0", "#f032e6",
	"#bcf60c", "#008080",
}

type roomState struct {
	createdAt    time.Time
	lastActivity time.Time
	members      map[string]struct{}
}

type Stats struct {
	Users int `json:"users"`
	Rooms int `json:"rooms"`
}

// Registry — авторитетная карта connection → user и room → members.
// Разделяется всеми readLoop-ами соединений, поэтому под RWMutex.
// Инвариант: каждый id в members имеет живую запись в users с тем же
// roomID, и наоборот; комната без участников удаляется сразу же.
type Registry struct {
	mu       sync.RWMutex
	users    map[string]*domain.User
	rooms    map[string]*roomState
	colorIdx uint64

	now func() time.Time // подменяется в тестах
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]*domain.User),
		rooms: make(map[string]*roomState),
		now:   time.Now,
	}
}

// AddUser регистрирует соединение в комнате и выдаёт следующий цвет палитры.
// Не имеет отказов: комната создаётся лениво, валидация username — забота
// вызывающего. Повторная регистрация того же connID сначала снимает старую,
// иначе прежняя комната навсегда держала бы несуществующего участника.
func (r *Registry) AddUser(connID, username, roomID string) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.detach(connID)

	now := r.now()
	u := &domain.User{
		ID:       connID,
		Username: username,
		RoomID:   roomID,
		Color:    Palette[r.colorIdx%uint64(len(Palette))],
		JoinedAt: now,
	}
	r.colorIdx++
	r.users[connID] = u

	rs, ok := r.rooms[roomID]
	if !ok {
		rs = &roomState{
			createdAt: now,
			members:   make(map[string]struct{}),
		}
		r.rooms[roomID] = rs
	}
	rs.members[connID] = struct{}{}
	rs.lastActivity = now

	return *u
}

// RemoveUser снимает регистрацию и возвращает последнее состояние
// пользователя, чтобы вызывающий знал, в какой комнате рассылать уход.
func (r *Registry) RemoveUser(connID string) (domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.detach(connID)
}

// detach убирает соединение из users и из member-сета его комнаты,
// удаляя опустевшую комнату. Вызывается только под r.mu.
func (r *Registry) detach(connID string) (domain.User, bool) {
	u, ok := r.users[connID]
	if !ok {
		return domain.User{}, false
	}
	delete(r.users, connID)

	if rs, ok := r.rooms[u.RoomID]; ok {
		delete(rs.members, connID)
		rs.lastActivity = r.now()
		if len(rs.members) == 0 {
			delete(r.rooms, u.RoomID)
		}
	}

	return *u, true
}

func (r *Registry) GetUser(connID string) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[connID]
	if !ok {
		return domain.User{}, false
	}
	return *u, true
}

// UpdateCursor — no-op для незарегистрированного соединения.
func (r *Registry) UpdateCursor(connID string, pos domain.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[connID]
	if !ok {
		return
	}
	u.Cursor = pos
	if rs, ok := r.rooms[u.RoomID]; ok {
		rs.lastActivity = r.now()
	}
}

// Roster возвращает публичную проекцию участников комнаты,
// упорядоченную по времени входа. Для неизвестной комнаты — пустой срез.
func (r *Registry) Roster(roomID string) []domain.RosterEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rs, ok := r.rooms[roomID]
	if !ok {
		return []domain.RosterEntry{}
	}

	out := make([]domain.RosterEntry, 0, len(rs.members))
	for id := range rs.members {
		u := r.users[id]
		out = append(out, domain.RosterEntry{
			UserID:   u.ID,
			Username: u.Username,
			Color:    u.Color,
			Cursor:   u.Cursor,
			JoinedAt: u.JoinedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].UserID < out[j].UserID
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})

	return out
}

func (r *Registry) RoomInfo(roomID string) (domain.RoomInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rs, ok := r.rooms[roomID]
	if !ok {
		return domain.RoomInfo{}, false
	}
	return domain.RoomInfo{
		ID:           roomID,
		CreatedAt:    rs.createdAt,
		LastActivity: rs.lastActivity,
		MemberCount:  len(rs.members),
	}, true
}

func (r *Registry) AllRooms() []domain.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.RoomInfo, 0, len(r.rooms))
	for id, rs := range r.rooms {
		out = append(out, domain.RoomInfo{
			ID:           id,
			CreatedAt:    rs.createdAt,
			LastActivity: rs.lastActivity,
			MemberCount:  len(rs.members),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Stats{Users: len(r.users), Rooms: len(r.rooms)}
}

func (r *Registry) UserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users)
}

// SweepInactiveRooms удаляет пустые комнаты, простоявшие дольше maxIdle.
// Пустые комнаты удаляются сразу в RemoveUser, так что это подстраховка;
// повторный вызов безопасен и ничего лишнего не трогает.
func (r *Registry) SweepInactiveRooms(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	deleted := 0
	for id, rs := range r.rooms {
		if len(rs.members) == 0 && rs.lastActivity.Before(cutoff) {
			delete(r.rooms, id)
			deleted++
		}
	}

	return deleted
}
