package health

import (
	"SmartBus/internal/lib/api/response"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

func Health(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok("ok").With("status", "up"))
	}
}
