package service

import "github.com/cwrk-planet/canvas-service/internal/domain"

// Типы событий, которые ходят по WS
const (
	// client → server
	TypeJoin      = "join"
	TypeStroke    = "stroke"     // завершённый штрих
	TypeDrawBatch = "draw_batch" // промежуточные сегменты, не персистятся
	TypeUndo      = "undo"
	TypeRedo      = "redo"
	TypeClearOwn  = "clear_own"
	TypeClearAll  = "clear_all"
	TypeCursor    = "cursor"

	// server → client
	TypeJoined      = "joined"       // ack с выданной identity
	TypeInitStrokes = "init_strokes" // снапшот лога новому участнику
	TypeState       = "state"        // актуальный roster комнаты
	TypeError       = "error"
	TypePeerLeft    = "peer_left"
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type JoinPayload struct {
	Username string `json:"username"`
}

type DrawSegment struct {
	Type  string       `json:"type"` // "draw"
	From  domain.Point `json:"from"`
	To    domain.Point `json:"to"`
	Tool  domain.Tool  `json:"tool"`
	Color string       `json:"color"`
	Size  float64      `json:"size"`
}

type DrawBatchPayload struct {
	Segments []DrawSegment `json:"segments"`
}

type UndoPayload struct {
	StrokeID string `json:"strokeId"`
}

type CursorPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// --- исходящие ---

type JoinedPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Color    string `json:"userColor"`
	RoomID   string `json:"roomId"`
}

type InitStrokesPayload struct {
	Strokes []domain.Stroke `json:"strokes"`
}

type StatePayload struct {
	RoomID       string               `json:"roomId"`
	Participants []domain.RosterEntry `json:"participants"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type DrawBatchRelay struct {
	UserID   string        `json:"userId"`
	Username string        `json:"username"`
	Segments []DrawSegment `json:"segments"`
}

type UndoRelay struct {
	UserID   string `json:"userId"`
	StrokeID string `json:"strokeId"`
}

type ClearPayload struct {
	UserID string `json:"userId"`
}

type CursorRelay struct {
	UserID string  `json:"userId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type PeerLeftPayload struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
