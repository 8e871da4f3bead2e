package http

import (
	"net/http"
	"time"

	"github.com/cwrk-planet/canvas-service/internal/transport/ws"
	"github.com/cwrk-planet/canvas-service/pkg/httputil"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httputil.MiddlewareRequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	// WS endpoints — без Timeout: соединения долгоживущие
	r.Get("/ws", wsServer.HandleWS)
	r.Get("/ws/rooms/{id}", wsServer.HandleWS)

	r.Group(func(pr chi.Router) {
		pr.Use(httputil.MiddlewareLogging)
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Get("/stats", h.Stats)

		pr.Route("/rooms", func(rm chi.Router) {
			rm.Get("/", h.ListRooms)

			rm.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", h.GetRoom)
				rr.Get("/participants", h.GetParticipants)
				rr.Get("/strokes", h.GetStrokes)
				rr.Get("/snapshot", h.GetSnapshot)
				rr.Post("/snapshot", h.RestoreSnapshot)
			})
		})
	})

	// liveness: статус + текущее число подключённых
	r.Get("/healthz", h.Health)

	return r
}
