package user

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

func ListParents(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.user"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		parents, err := handler.ListParents(r.Context())
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("parents").With("parents", parents))
	}
}

func GetParent(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.user"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		parent, err := handler.GetParent(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("parent").With("user", parent))
	}
}

func UpdateParent(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.user"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var in entity.AccountInput
		if err := render.DecodeJSON(r.Body, &in); err != nil {
			response.Render(w, r, logger, errs.Invalidf("invalid request body"))
			return
		}

		parent, err := handler.UpdateParent(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("id", parent.ID)).Debug("parent updated")
		render.JSON(w, r, response.Ok("parent updated").With("user", parent))
	}
}

func DeleteParent(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.user"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if err := handler.DeleteParent(r.Context(), id); err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("id", id)).Debug("parent deleted")
		render.JSON(w, r, response.Ok("parent deleted"))
	}
}
