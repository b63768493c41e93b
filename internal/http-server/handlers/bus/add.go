package bus

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/api/response"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

func Add(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.bus"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var in entity.BusInput
		if err := render.DecodeJSON(r.Body, &in); err != nil {
			response.Render(w, r, logger, errs.Invalidf("invalid request body"))
			return
		}

		bus, err := handler.CreateBus(r.Context(), in)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("bus_id", bus.BusId)).Debug("bus added")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok("bus added").With("bus", bus))
	}
}
