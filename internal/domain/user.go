package domain

import "time"

// Point — координата на холсте.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// User живёт ровно столько, сколько живёт его соединение.
type User struct {
	ID       string    `json:"userId"` // connection id, выдаётся сервером при upgrade
	Username string    `json:"username"`
	RoomID   string    `json:"roomId"`
	Color    string    `json:"color"`
	Cursor   Point     `json:"cursor"`
	JoinedAt time.Time `json:"joinedAt"`
}
