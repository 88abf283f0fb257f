package question

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
	AddQuestion(caller *entity.User, in *entity.QuestionInput) (*entity.Question, error)
	Questions(caller *entity.User) ([]entity.Question, error)
	DeleteQuestion(caller *entity.User, questionId string) error
	SetQuestionVisibility(caller *entity.User, questionId string, visibility entity.Visibility) error
}

func Add(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.question"),
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

		var in entity.QuestionInput
		if err := render.Bind(r, &in); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}

		q, err := handler.AddQuestion(user, &in)
		if err != nil {
			log.Warn("question creation", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		log.With(slog.String("question_id", q.Id)).Info("question created")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, q)
	}
}

func List(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.question"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user := cont.GetUser(r.Context())
		if user == nil {
			log.Error("user not found in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
			return
		}

		questions, err := handler.Questions(user)
		if err != nil {
			log.Warn("question list", sl.User(user.Id), sl.Err(err))
			response.RenderError(w, r, err)
			return
		}

		render.JSON(w, r, questions)
	}
}

func Delete(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.question"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user := cont.GetUser(r.Context())
		if user == nil {
			log.Error("user not found in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
			return
		}

		questionId := chi.URLParam(r, "questionId")
		log = log.With(sl.User(user.Id), slog.String("question_id", questionId))

		if err := handler.DeleteQuestion(user, questionId); err != nil {
			log.Warn("question removal", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		log.Info("question removed")

		render.JSON(w, r, response.Message("question removed"))
	}
}

func Visibility(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.question"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user := cont.GetUser(r.Context())
		if user == nil {
			log.Error("user not found in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
			return
		}

		questionId := chi.URLParam(r, "questionId")

		var in entity.VisibilityUpdate
		if err := render.Bind(r, &in); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
		log = log.With(sl.User(user.Id), slog.String("question_id", questionId))

		if err := handler.SetQuestionVisibility(user, questionId, in.Visibility); err != nil {
			log.Warn("visibility update", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		log.Debug("visibility updated", slog.String("visibility", string(in.Visibility)))

		render.JSON(w, r, response.Message("visibility updated"))
	}
}
