package bus

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/api/cont"
	"SmartBus/internal/lib/api/response"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

func Update(log *slog.Logger, handler Core) http.HandlerFunc {
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

		bus, err := handler.UpdateBus(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("bus_id", bus.BusId)).Debug("bus updated")
		render.JSON(w, r, response.Ok("bus updated").With("bus", bus))
	}
}

// Location is open to admins and to the drivers assigned to the bus.
func Location(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.bus"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var at entity.Coordinates
		if err := render.DecodeJSON(r.Body, &at); err != nil {
			response.Render(w, r, logger, errs.Invalidf("invalid request body"))
			return
		}

		bus, err := handler.UpdateBusLocation(r.Context(), cont.GetUser(r.Context()), chi.URLParam(r, "id"), at)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("location updated").With("bus", bus))
	}
}

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.bus"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if err := handler.DeleteBus(r.Context(), id); err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("id", id)).Debug("bus deleted")
		render.JSON(w, r, response.Ok("bus deleted"))
	}
}
