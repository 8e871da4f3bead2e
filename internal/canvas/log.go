package canvas

import (
	"sync"
	"time"

	"github.com/cwrk-planet/canvas-service/internal/domain"
)

// DefaultMaxStrokes — потолок лога на комнату; выше него старейшие
// штрихи вытесняются по FIFO.
const DefaultMaxStrokes = 10000

type Snapshot struct {
	RoomID     string          `json:"roomId"`
	Strokes    []domain.Stroke `json:"strokes"`
	ExportedAt time.Time       `json:"exportedAt"`
}

type RoomStats struct {
	Strokes  int            `json:"strokes"`
	ByAuthor map[string]int `json:"byAuthor"`
}

// Log — упорядоченный лог штрихов по комнатам. Порядок вставки равен
// порядку прихода на сервер и авторитетен при реплее (last-write-wins
// получается сам собой). Никакой персистентности: только память процесса.
type Log struct {
	mu         sync.RWMutex
	rooms      map[string][]domain.Stroke
	maxStrokes int

	now func() time.Time
}

func NewLog(maxStrokes int) *Log {
	if maxStrokes <= 0 {
		maxStrokes = DefaultMaxStrokes
	}
	return &Log{
		rooms:      make(map[string][]domain.Stroke),
		maxStrokes: maxStrokes,
		now:        time.Now,
	}
}

// Append добавляет штрих в лог комнаты, лениво создавая его. Вытеснение
// старейшего при переполнении происходит в той же критической секции,
// так что инвариант «не больше maxStrokes» держится всегда.
func (l *Log) Append(roomID string, s domain.Stroke) {
	l.mu.Lock()
	defer l.mu.Unlock()

	strokes := append(l.rooms[roomID], s)
	if len(strokes) > l.maxStrokes {
		strokes = strokes[len(strokes)-l.maxStrokes:]
	}
	l.rooms[roomID] = strokes
}

// RemoveByID удаляет первый штрих с данным id; сообщает, было ли что
// удалять. Неизвестная комната или id — не ошибка.
func (l *Log) RemoveByID(roomID, strokeID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	strokes, ok := l.rooms[roomID]
	if !ok {
		return false
	}
	for i, s := range strokes {
		if s.ID == strokeID {
			l.rooms[roomID] = append(strokes[:i:i], strokes[i+1:]...)
			return true
		}
	}

	return false
}

// RemoveByAuthor убирает все штрихи автора, сохраняя относительный
// порядок остальных. Возвращает число удалённых.
func (l *Log) RemoveByAuthor(roomID, userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	strokes, ok := l.rooms[roomID]
	if !ok {
		return 0
	}
	kept := strokes[:0:0]
	for _, s := range strokes {
		if s.UserID != userID {
			kept = append(kept, s)
		}
	}
	removed := len(strokes) - len(kept)
	l.rooms[roomID] = kept

	return removed
}

// Clear опустошает лог комнаты, сама запись комнаты остаётся.
func (l *Log) Clear(roomID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.rooms[roomID]; ok {
		l.rooms[roomID] = nil
	}
}

// DropRoom убирает лог комнаты целиком (полный teardown, в отличие от Clear).
func (l *Log) DropRoom(roomID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.rooms, roomID)
}

// Get возвращает копию лога комнаты; для неизвестной комнаты — пустой срез.
func (l *Log) Get(roomID string) []domain.Stroke {
	l.mu.RLock()
	defer l.mu.RUnlock()

	strokes := l.rooms[roomID]
	out := make([]domain.Stroke, len(strokes))
	copy(out, strokes)

	return out
}

// Snapshot экспортирует лог комнаты для внешнего хранителя.
func (l *Log) Snapshot(roomID string) (Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	strokes, ok := l.rooms[roomID]
	if !ok {
		return Snapshot{}, false
	}
	out := make([]domain.Stroke, len(strokes))
	copy(out, strokes)

	return Snapshot{
		RoomID:     roomID,
		Strokes:    out,
		ExportedAt: l.now(),
	}, true
}

// Restore замещает лог комнаты содержимым снапшота.
// Restore(Snapshot(r)) воспроизводит эквивалентную последовательность.
func (l *Log) Restore(snap Snapshot) error {
	if snap.RoomID == "" {
		return domain.ErrInvalidSnapshot
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	strokes := make([]domain.Stroke, len(snap.Strokes))
	copy(strokes, snap.Strokes)
	if len(strokes) > l.maxStrokes {
		strokes = strokes[len(strokes)-l.maxStrokes:]
	}
	l.rooms[snap.RoomID] = strokes

	return nil
}

// Stats — количество штрихов и разбивка по авторам, по каждой комнате.
func (l *Log) Stats() map[string]RoomStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]RoomStats, len(l.rooms))
	for roomID, strokes := range l.rooms {
		st := RoomStats{
			Strokes:  len(strokes),
			ByAuthor: make(map[string]int),
		}
		for _, s := range strokes {
			st.ByAuthor[s.UserID]++
		}
		out[roomID] = st
	}

	return out
}
