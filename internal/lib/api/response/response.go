package response

import (
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

// Response is the JSON body of every API answer: a message plus any
// entity or list attached with With.
type Response map[string]interface{}

func Ok(message string) Response {
	return Response{"message": message}
}

func Error(message string) Response {
	return Response{"message": message}
}

func (r Response) With(key string, value interface{}) Response {
	r[key] = value
	return r
}

func Status(kind errs.Kind) int {
	switch kind {
	case errs.Unauthenticated:
		return http.StatusUnauthorized
	case errs.Forbidden:
		return http.StatusForbidden
	case errs.InvalidInput, errs.Conflict:
		return http.StatusBadRequest
	case errs.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Render writes err with the status code of its kind. Internal failures are
// logged and answered with a generic message.
func Render(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	kind := errs.KindOf(err)
	if kind == errs.Internal {
		log.Error("request failed", sl.Err(err))
	} else {
		log.With(
			slog.String("kind", kind.String()),
		).Debug("request rejected", sl.Err(err))
	}

	resp := Error(errs.Message(err)).With("error", kind.String())
	if fields := errs.Fields(err); len(fields) > 0 {
		resp = resp.With("errors", fields)
	}

	render.Status(r, Status(kind))
	render.JSON(w, r, resp)
}
