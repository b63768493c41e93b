package user

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/api/cont"
	"SmartBus/internal/lib/api/response"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

func GetMe(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.user"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		account, err := handler.GetAccount(r.Context(), cont.GetUser(r.Context()).AccountId)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("account").With("user", account))
	}
}

// UpdateMe changes the caller's own profile; the role field is ignored.
func UpdateMe(log *slog.Logger, handler Core) http.HandlerFunc {
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

		account, err := handler.UpdateAccount(r.Context(), cont.GetUser(r.Context()).AccountId, in)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("account updated").With("user", account))
	}
}

func MyStudents(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.user"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		students, err := handler.ParentStudents(r.Context(), cont.GetUser(r.Context()).AccountId)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("students").With("students", students))
	}
}

func MyPresences(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.user"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		presences, err := handler.ParentPresences(r.Context(), cont.GetUser(r.Context()).AccountId)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("presences").With("presences", presences))
	}
}
