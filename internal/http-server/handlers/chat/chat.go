package chat

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
	SendMessage(caller *entity.User, in *entity.MessageInput) (*entity.ChatMessage, error)
	Conversation(caller *entity.User, otherUserId string) ([]entity.ChatMessage, error)
}

func Send(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.chat"),
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

		var in entity.MessageInput
		if err := render.Bind(r, &in); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}

		msg, err := handler.SendMessage(user, &in)
		if err != nil {
			log.Warn("message send", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		log.Debug("message sent", slog.String("receiver_id", msg.ReceiverId))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, msg)
	}
}

func Conversation(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.chat"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user := cont.GetUser(r.Context())
		if user == nil {
			log.Error("user not found in context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user not found"))
			return
		}

		otherUserId := chi.URLParam(r, "userId")

		messages, err := handler.Conversation(user, otherUserId)
		if err != nil {
			log.Warn("conversation lookup", sl.User(user.Id), sl.Err(err))
			response.RenderError(w, r, err)
			return
		}

		render.JSON(w, r, messages)
	}
}
