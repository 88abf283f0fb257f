package comment

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
	AddComment(caller *entity.User, in *entity.CommentInput) (*entity.Comment, error)
	AddReply(caller *entity.User, in *entity.ReplyInput) (*entity.Comment, error)
	QuestionThread(questionId string) ([]entity.Comment, error)
}

func Add(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.comment"),
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

		var in entity.CommentInput
		if err := render.Bind(r, &in); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}

		comment, err := handler.AddComment(user, &in)
		if err != nil {
			log.Warn("comment creation", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		log.Debug("comment created", slog.String("comment_id", comment.Id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, comment)
	}
}

func Reply(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.comment"),
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

		var in entity.ReplyInput
		if err := render.Bind(r, &in); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
		reply, err := handler.AddReply(user, &in)
		if err != nil {
			log.Warn("reply creation", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		log.Debug("reply created", slog.String("comment_id", reply.Id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, reply)
	}
}

func Thread(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.comment"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		questionId := chi.URLParam(r, "questionId")

		thread, err := handler.QuestionThread(questionId)
		if err != nil {
			log.Warn("thread lookup", slog.String("question_id", questionId), sl.Err(err))
			response.RenderError(w, r, err)
			return
		}

		render.JSON(w, r, thread)
	}
}
