package user

import (
	"SmartBus/internal/lib/api/response"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

// LoginRequest accepts the login in "login", "email" or "username".
type LoginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *LoginRequest) login() string {
	switch {
	case req.Login != "":
		return req.Login
	case req.Email != "":
		return req.Email
	default:
		return req.Username
	}
}

func Login(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.user"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req LoginRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			response.Render(w, r, logger, errs.Invalidf("invalid request body"))
			return
		}

		account, token, err := handler.Login(r.Context(), req.login(), req.Password)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("id", account.ID)).Debug("logged in")

		render.JSON(w, r, response.Ok("logged in").
			With("token", token).
			With("user", account))
	}
}
