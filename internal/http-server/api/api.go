package api

import (
	"SmartBus/entity"
	"SmartBus/internal/config"
	"SmartBus/internal/http-server/handlers/bus"
	"SmartBus/internal/http-server/handlers/driver"
	"SmartBus/internal/http-server/handlers/errors"
	"SmartBus/internal/http-server/handlers/health"
	"SmartBus/internal/http-server/handlers/presence"
	"SmartBus/internal/http-server/handlers/student"
	"SmartBus/internal/http-server/handlers/user"
	"SmartBus/internal/http-server/middleware/authenticate"
	"SmartBus/internal/http-server/middleware/authorize"
	"SmartBus/internal/http-server/middleware/logging"
	"SmartBus/internal/http-server/middleware/timeout"
	"SmartBus/internal/lib/sl"
	"SmartBus/internal/storage/uploads"
	"fmt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net"
	"net/http"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	user.Core
	bus.Core
	driver.Core
	student.Core
	presence.Core
}

// NewRouter wires every route. Credentials are checked once per protected
// group, then each group applies its role gate.
func NewRouter(conf *config.Config, log *slog.Logger, handler Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(logging.New(log))
	router.Use(middleware.Recoverer)
	if conf.Listen.Timeout > 0 {
		router.Use(timeout.Timeout(conf.Listen.Timeout))
	}
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	authn := authenticate.New(log, handler)
	adminOnly := authorize.Require(log, entity.RoleAdmin)

	router.Get("/health", health.Health(log))
	router.Handle(uploads.URLPrefix+"*", uploads.FileServer(conf.Uploads.Dir))

	router.Route("/api", func(api chi.Router) {
		api.Route("/users", func(r chi.Router) {
			r.Post("/register", user.Register(log, handler))
			r.Post("/login", user.Login(log, handler))

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.Get("/me", user.GetMe(log, handler))
				r.Put("/me", user.UpdateMe(log, handler))

				r.Group(func(r chi.Router) {
					r.Use(authorize.Require(log, entity.RoleParent))
					r.Get("/me/students", user.MyStudents(log, handler))
					r.Get("/me/presences", user.MyPresences(log, handler))
				})

				r.Group(func(r chi.Router) {
					r.Use(adminOnly)
					r.Post("/add-parent", user.AddParent(log, handler))
					r.Get("/parents", user.ListParents(log, handler))
					r.Get("/parents/{id}", user.GetParent(log, handler))
					r.Put("/parents/{id}", user.UpdateParent(log, handler))
					r.Delete("/parents/{id}", user.DeleteParent(log, handler))
				})
			})
		})

		api.Route("/buses", func(r chi.Router) {
			r.Use(authn)
			r.With(authorize.Require(log, entity.RoleAdmin, entity.RoleDriver)).
				Put("/{id}/location", bus.Location(log, handler))

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/add", bus.Add(log, handler))
				r.Get("/", bus.List(log, handler))
				r.Get("/{id}", bus.Get(log, handler))
				r.Put("/{id}", bus.Update(log, handler))
				r.Delete("/{id}", bus.Delete(log, handler))
			})
		})

		api.Route("/drivers", func(r chi.Router) {
			r.Use(authn, adminOnly)
			r.Post("/add", driver.Add(log, handler))
			r.Get("/", driver.List(log, handler))
			r.Get("/{id}", driver.Get(log, handler))
			r.Put("/{id}", driver.Update(log, handler))
			r.Delete("/{id}", driver.Delete(log, handler))
		})

		api.Route("/students", func(r chi.Router) {
			// the image plus a little room for the other form fields
			r.Use(middleware.RequestSize(conf.Uploads.MaxSize + 1<<20))
			r.Use(authn, adminOnly)
			r.Post("/add", student.Add(log, handler))
			r.Get("/", student.List(log, handler))
			r.Get("/{id}", student.Get(log, handler))
			r.Put("/{id}", student.Update(log, handler))
			r.Delete("/{id}", student.Delete(log, handler))
		})

		api.Route("/presences", func(r chi.Router) {
			r.Use(authn, adminOnly)
			r.Post("/add", presence.Add(log, handler))
			r.Get("/", presence.List(log, handler))
			r.Get("/{id}", presence.Get(log, handler))
			r.Put("/{id}", presence.Update(log, handler))
			r.Delete("/{id}", presence.Delete(log, handler))
		})
	})

	return router
}

func New(conf *config.Config, log *slog.Logger, handler Handler) error {
	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  NewRouter(conf, log, handler),
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
