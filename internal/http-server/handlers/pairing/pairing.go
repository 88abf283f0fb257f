package pairing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"edumov/entity"
	"edumov/lib/api/cont"
	"edumov/lib/api/response"
	"edumov/lib/sl"
)

type Core interface {
	RequestCode(caller *entity.User) (*entity.CodeGrant, error)
	ActiveCode(caller *entity.User) (*entity.TeacherCode, error)
	LinkStudent(caller *entity.User, code string) error
	Students(caller *entity.User) ([]entity.LinkedStudent, error)
	Teachers(caller *entity.User) ([]entity.LinkedTeacher, error)
	Unlink(caller *entity.User, relationId string) error
}

func RequestCode(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.pairing"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user := cont.GetUser(r.Context())
		if user == nil {
			log.Error("user not found in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log = log.With(sl.User(user.Id))

		grant, err := handler.RequestCode(user)
		if err != nil {
			log.Warn("code request", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		log.With(slog.String("code", grant.Code)).Info("invitation code issued")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, grant)
	}
}

func MyCode(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.pairing"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user := cont.GetUser(r.Context())
		if user == nil {
			log.Error("user not found in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
			return
		}

		code, err := handler.ActiveCode(user)
		if err != nil {
			log.Debug("active code lookup", sl.User(user.Id), sl.Err(err))
			response.RenderError(w, r, err)
			return
		}

		render.JSON(w, r, &entity.CodeGrant{Code: code.Code, ExpiresAt: code.ExpiresAt})
	}
}

func LinkStudent(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.pairing"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user := cont.GetUser(r.Context())
		if user == nil {
			log.Error("user not found in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log = log.With(sl.User(user.Id))

		var req entity.LinkRequest
		if err := render.Bind(r, &req); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("code is required"))
			return
		}

		if err := handler.LinkStudent(user, req.Code); err != nil {
			log.Warn("link student", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		log.Info("student linked")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Message("linked to teacher"))
	}
}

func Students(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.pairing"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user := cont.GetUser(r.Context())
		if user == nil {
			log.Error("user not found in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
			return
		}

		students, err := handler.Students(user)
		if err != nil {
			log.Warn("student list", sl.User(user.Id), sl.Err(err))
			response.RenderError(w, r, err)
			return
		}

		render.JSON(w, r, students)
	}
}

func Teachers(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.pairing"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user := cont.GetUser(r.Context())
		if user == nil {
			log.Error("user not found in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
			return
		}

		teachers, err := handler.Teachers(user)
		if err != nil {
			log.Warn("teacher list", sl.User(user.Id), sl.Err(err))
			response.RenderError(w, r, err)
			return
		}

		render.JSON(w, r, teachers)
	}
}

func Unlink(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.pairing"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user := cont.GetUser(r.Context())
		if user == nil {
			log.Error("user not found in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
			return
		}

		relationId := chi.URLParam(r, "relationId")
		log = log.With(sl.User(user.Id), slog.String("relation_id", relationId))

		if err := handler.Unlink(user, relationId); err != nil {
			log.Warn("unlink", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		log.Info("relationship removed")

		render.JSON(w, r, response.Message("relationship removed"))
	}
}
