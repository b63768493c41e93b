package driver

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/api/response"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

func Add(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.driver"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var in entity.DriverInput
		if err := render.DecodeJSON(r.Body, &in); err != nil {
			response.Render(w, r, logger, errs.Invalidf("invalid request body"))
			return
		}

		driver, err := handler.CreateDriver(r.Context(), in)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("id", driver.ID)).Debug("driver added")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok("driver added").With("driver", driver))
	}
}

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.driver"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		drivers, err := handler.ListDrivers(r.Context())
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("drivers").With("drivers", drivers))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.driver"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		driver, err := handler.GetDriver(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("driver").With("driver", driver))
	}
}

func Update(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.driver"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var in entity.DriverInput
		if err := render.DecodeJSON(r.Body, &in); err != nil {
			response.Render(w, r, logger, errs.Invalidf("invalid request body"))
			return
		}

		driver, err := handler.UpdateDriver(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("id", driver.ID)).Debug("driver updated")
		render.JSON(w, r, response.Ok("driver updated").With("driver", driver))
	}
}

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.driver"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if err := handler.DeleteDriver(r.Context(), id); err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("id", id)).Debug("driver deleted")
		render.JSON(w, r, response.Ok("driver deleted"))
	}
}
