package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cwrk-planet/canvas-service/internal/canvas"
	"github.com/cwrk-planet/canvas-service/internal/domain"
	"github.com/cwrk-planet/canvas-service/internal/session"
	"github.com/cwrk-planet/canvas-service/pkg/httputil"

	"github.com/go-chi/chi/v5"
)

// Handler — read-only introspection поверх реестра и лога плюс
// snapshot/restore как крюк для внешнего хранителя. Координацию он не
// трогает: вся мутация стейта идёт через WS.
type Handler struct {
	registry *session.Registry
	log      *canvas.Log
}

func NewHandler(registry *session.Registry, log *canvas.Log) *Handler {
	return &Handler{registry: registry, log: log}
}

// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Users:  h.registry.UserCount(),
	})
}

// GET /stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, StatsResponse{
		Sessions: h.registry.Stats(),
		Canvas:   h.log.Stats(),
	})
}

// GET /rooms
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, RoomsListResponse{Items: h.registry.AllRooms()})
}

// GET /rooms/{id}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	info, ok := h.registry.RoomInfo(id)
	if !ok {
		httputil.Error(w, http.StatusNotFound, "room not found")
		return
	}

	httputil.JSON(w, http.StatusOK, info)
}

// GET /rooms/{id}/participants
func (h *Handler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	httputil.JSON(w, http.StatusOK, ParticipantsResponse{Items: h.registry.Roster(id)})
}

// GET /rooms/{id}/strokes
func (h *Handler) GetStrokes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	httputil.JSON(w, http.StatusOK, StrokesResponse{
		RoomID: id,
		Items:  h.log.Get(id),
	})
}

// GET /rooms/{id}/snapshot
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, ok := h.log.Snapshot(id)
	if !ok {
		httputil.Error(w, http.StatusNotFound, "room not found")
		return
	}

	httputil.JSON(w, http.StatusOK, snap)
}

// POST /rooms/{id}/snapshot
func (h *Handler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap canvas.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	if snap.RoomID == "" {
		snap.RoomID = chi.URLParam(r, "id")
	}

	if err := h.log.Restore(snap); err != nil {
		if errors.Is(err, domain.ErrInvalidSnapshot) {
			httputil.Error(w, http.StatusBadRequest, "invalid snapshot")
			return
		}
		slog.Error("handler.RestoreSnapshot:", slog.Any("err", err))
		httputil.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	httputil.JSON(w, http.StatusOK, RestoreResponse{
		RoomID:   snap.RoomID,
		Restored: len(snap.Strokes),
	})
}
