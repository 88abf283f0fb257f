package account

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"edumov/entity"
	"edumov/lib/api/response"
	"edumov/lib/sl"
)

type Core interface {
	Register(reg *entity.Registration) (*entity.Session, error)
	Login(creds *entity.Credentials) (*entity.Session, error)
	VerifyIdentity(check *entity.IdentityCheck) error
	ResetPassword(reset *entity.PasswordReset) error
}

func Register(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.account"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var reg entity.Registration
		if err := render.Bind(r, &reg); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}
		log = log.With(slog.String("cpf", reg.CPF), slog.String("user_type", string(reg.UserType)))

		session, err := handler.Register(&reg)
		if err != nil {
			log.Error("registration", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		log.With(sl.User(session.User.Id)).Info("account registered")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, session)
	}
}

func Login(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.account"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var creds entity.Credentials
		if err := render.Bind(r, &creds); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}

		session, err := handler.Login(&creds)
		if err != nil {
			log.Warn("login", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		log.With(sl.User(session.User.Id)).Debug("login succeeded")

		render.JSON(w, r, session)
	}
}

func VerifyIdentity(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.account"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var check entity.IdentityCheck
		if err := render.Bind(r, &check); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}

		if err := handler.VerifyIdentity(&check); err != nil {
			log.Warn("identity check", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}

		render.JSON(w, r, response.Message("identity confirmed"))
	}
}

func ResetPassword(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.account"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var reset entity.PasswordReset
		if err := render.Bind(r, &reset); err != nil {
			log.Warn("invalid request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid request body"))
			return
		}

		if err := handler.ResetPassword(&reset); err != nil {
			log.Warn("password reset", sl.Err(err))
			response.RenderError(w, r, err)
			return
		}
		log.Info("password updated")

		render.JSON(w, r, response.Message("password updated"))
	}
}
