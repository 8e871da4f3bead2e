package domain

import "time"

// RoomInfo — публичная проекция комнаты для introspection-эндпоинтов.
type RoomInfo struct {
	ID           string    `json:"roomId"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActivity time.Time `json:"lastActivity"`
	MemberCount  int       `json:"memberCount"`
}

// RosterEntry — публичная проекция участника комнаты.
type RosterEntry struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	Color    string    `json:"userColor"`
	Cursor   Point     `json:"cursor"`
	JoinedAt time.Time `json:"joinedAt"`
}
