package student

import (
	"SmartBus/entity"
	"SmartBus/internal/lib/api/response"
	"SmartBus/internal/lib/sl"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
)

// Add expects multipart/form-data with the student fields and an image.
func Add(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.student"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		in, image, cleanup, err := decode(r)
		defer cleanup()
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		student, err := handler.CreateStudent(r.Context(), in, image)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("student_id", student.StudentId)).Debug("student added")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok("student added").With("student", student))
	}
}

// List accepts optional parentId and busId query filters.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.student"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		filter := entity.StudentFilter{
			ParentId: r.URL.Query().Get("parentId"),
			BusId:    r.URL.Query().Get("busId"),
		}
		students, err := handler.ListStudents(r.Context(), filter)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("students").With("students", students))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.student"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		student, err := handler.GetStudent(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		render.JSON(w, r, response.Ok("student").With("student", student))
	}
}

// Update takes JSON, or multipart when the image is replaced.
func Update(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.student"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		in, image, cleanup, err := decode(r)
		defer cleanup()
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		student, err := handler.UpdateStudent(r.Context(), chi.URLParam(r, "id"), in, image)
		if err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("student_id", student.StudentId)).Debug("student updated")
		render.JSON(w, r, response.Ok("student updated").With("student", student))
	}
}

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.student"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if err := handler.DeleteStudent(r.Context(), id); err != nil {
			response.Render(w, r, logger, err)
			return
		}

		logger.With(slog.String("id", id)).Debug("student deleted")
		render.JSON(w, r, response.Ok("student deleted"))
	}
}
