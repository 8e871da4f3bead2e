package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type envelope map[string]any

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response failed", slog.Any("err", err))
	}
}

// Error — унифицированная ошибка; успешные ответы отдаются через JSON
// без обёртки, свои dto у каждого хендлера.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, envelope{
		"error": envelope{
			"message": msg,
		},
	})
}
