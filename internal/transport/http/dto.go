package http

import (
	"github.com/cwrk-planet/canvas-service/internal/canvas"
	"github.com/cwrk-planet/canvas-service/internal/domain"
	"github.com/cwrk-planet/canvas-service/internal/session"
)

type HealthResponse struct {
	Status string `json:"status"`
	Users  int    `json:"users"`
}

type StatsResponse struct {
	Sessions session.Stats               `json:"sessions"`
	Canvas   map[string]canvas.RoomStats `json:"canvas"`
}

type RoomsListResponse struct {
	Items []domain.RoomInfo `json:"items"`
}

type ParticipantsResponse struct {
	Items []domain.RosterEntry `json:"items"`
}

type StrokesResponse struct {
	RoomID string          `json:"roomId"`
	Items  []domain.Stroke `json:"items"`
}

type RestoreResponse struct {
	RoomID   string `json:"roomId"`
	Restored int    `json:"restored"`
}
