package bus

import (
	"SmartBus/internal/lib/api/response"
	"SmartBus/internal/lib/sl"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.bus"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		buses, err := handler.ListBuses(r.Context())
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("buses").With("buses", buses))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.bus"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		bus, err := handler.GetBus(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("bus").With("bus", bus))
	}
}
