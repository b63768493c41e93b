package presence

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
			sl.Module("http.handlers.presence"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var in entity.PresenceInput
		if err := render.DecodeJSON(r.Body, &in); err != nil {
			response.Render(w, r, logger, errs.Invalidf("invalid request body"))
			return
		}

		presence, err := handler.CreatePresence(r.Context(), in)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(
			slog.String("student_id", presence.StudentId),
			slog.String("status", presence.Status),
		).Debug("presence recorded")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok("presence recorded").With("presence", presence))
	}
}

// List returns the newest events first, optionally narrowed by studentId
// and busId query parameters.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.presence"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		filter := entity.PresenceFilter{BusId: r.URL.Query().Get("busId")}
		if studentId := r.URL.Query().Get("studentId"); studentId != "" {
			filter.StudentIds = []string{studentId}
		}
		presences, err := handler.ListPresences(r.Context(), filter)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("presences").With("presences", presences))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.presence"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		presence, err := handler.GetPresence(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("presence").With("presence", presence))
	}
}

func Update(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.presence"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var in entity.PresenceInput
		if err := render.DecodeJSON(r.Body, &in); err != nil {
			response.Render(w, r, logger, errs.Invalidf("invalid request body"))
			return
		}

		presence, err := handler.UpdatePresence(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("presence updated").With("presence", presence))
	}
}

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.presence"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if err := handler.DeletePresence(r.Context(), id); err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("id", id)).Debug("presence deleted")
		render.JSON(w, r, response.Ok("presence deleted"))
	}
}
