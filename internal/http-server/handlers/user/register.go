package user

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

// Register is public: anyone may open a parent or driver account.
func Register(log *slog.Logger, handler Core) http.HandlerFunc {
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

		account, token, err := handler.Register(r.Context(), in)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(
			slog.String("id", account.ID),
			slog.String("role", account.Role),
		).Debug("account registered")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok("account registered").
			With("token", token).
			With("user", account))
	}
}

// AddParent lets an admin provision a parent account.
func AddParent(log *slog.Logger, handler Core) http.HandlerFunc {
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

		account, token, err := handler.AddParent(r.Context(), in)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("id", account.ID)).Debug("parent added")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok("parent added").
			With("token", token).
			With("user", account))
	}
}
