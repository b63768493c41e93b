package authorize

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/api/cont"
	"SmartBus/internal/lib/api/response"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"fmt"
	"github.com/go-chi/chi/v5/middleware"
	"log/slog"
	"net/http"
	"slices"
	"strings"
)

// Permit reports whether the caller holds one of roles.
func Permit(user *entity.UserAuth, roles ...string) error {
	if user == nil {
		return errs.Forbiddenf("unauthenticated caller")
	}
	if !slices.Contains(roles, user.Role) {
		return errs.Forbiddenf("%s role required", strings.Join(roles, " or "))
	}
	return nil
}

// Require lets the request through only for callers holding one of roles.
// It must run after authenticate.
func Require(log *slog.Logger, roles ...string) func(next http.Handler) http.Handler {
	logger := log.With(sl.Module("middleware.authorize"), slog.String("roles", fmt.Sprint(roles)))

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if err := Permit(cont.GetUser(r.Context()), roles...); err != nil {
				response.Render(w, r, logger.With(
					slog.String("request_id", middleware.GetReqID(r.Context())),
				), err)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
