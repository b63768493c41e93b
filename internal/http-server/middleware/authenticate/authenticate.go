package authenticate

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/api/cont"
	"SmartBus/internal/lib/api/response"
	"SmartBus/internal/lib/errs"
	"SmartBus/internal/lib/sl"
	"github.com/go-chi/chi/v5/middleware"
	"log/slog"
	"net/http"
	"strings"
)

type Authenticate interface {
	AuthenticateByToken(token string) (*entity.UserAuth, error)
}

// New verifies the bearer token and puts the caller identity into the
// request context. Requests without valid credentials get 401.
func New(log *slog.Logger, auth Authenticate) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.authenticate")
	log.With(mod).Info("authenticate middleware initialized")

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			logger := log.With(
				mod,
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				response.Render(w, r, logger, errs.Unauthenticatedf("missing credentials"))
				return
			}
			logger = logger.With(sl.Secret("token", token))

			user, err := auth.AuthenticateByToken(token)
			if err != nil {
				response.Render(w, r, logger, err)
				return
			}

			logger.With(
				slog.String("user", user.AccountId),
				slog.String("role", user.Role),
			).Debug("authenticated")

			w.Header().Set("X-User", user.AccountId)
			next.ServeHTTP(w, r.WithContext(cont.PutUser(r.Context(), user)))
		}

		return http.HandlerFunc(fn)
	}
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
