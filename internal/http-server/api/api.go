package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"edumov/internal/config"
	"edumov/internal/http-server/handlers/account"
	"edumov/internal/http-server/handlers/chat"
	"edumov/internal/http-server/handlers/comment"
	"edumov/internal/http-server/handlers/errors"
	"edumov/internal/http-server/handlers/health"
	"edumov/internal/http-server/handlers/pairing"
	"edumov/internal/http-server/handlers/question"
	"edumov/internal/http-server/middleware/authenticate"
	"edumov/internal/http-server/middleware/timeout"
	"edumov/lib/sl"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	account.Core
	pairing.Core
	question.Core
	comment.Core
	chat.Core
}

// NewRouter wires every endpoint. Everything under /api except the public
// group requires a bearer token.
func NewRouter(log *slog.Logger, handler Handler, dbName string) chi.Router {
	router := chi.NewRouter()
	router.Use(timeout.Timeout(5))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Route("/api", func(rootApi chi.Router) {
		rootApi.Get("/health", health.Check(dbName))
		rootApi.Post("/register", account.Register(log, handler))
		rootApi.Post("/login", account.Login(log, handler))
		rootApi.Post("/verify-reset", account.VerifyIdentity(log, handler))
		rootApi.Post("/reset-password", account.ResetPassword(log, handler))

		rootApi.Group(func(private chi.Router) {
			private.Use(authenticate.New(log, handler))

			private.Post("/teacher-code", pairing.RequestCode(log, handler))
			private.Get("/teacher-code", pairing.MyCode(log, handler))
			private.Post("/link-student", pairing.LinkStudent(log, handler))
			private.Get("/students", pairing.Students(log, handler))
			private.Get("/teachers", pairing.Teachers(log, handler))
			private.Delete("/unlink-student/{relationId}", pairing.Unlink(log, handler))

			private.Route("/questions", func(qs chi.Router) {
				qs.Post("/", question.Add(log, handler))
				qs.Get("/", question.List(log, handler))
				qs.Delete("/{questionId}", question.Delete(log, handler))
				qs.Patch("/{questionId}/visibility", question.Visibility(log, handler))
			})

			private.Route("/comments", func(cm chi.Router) {
				cm.Post("/", comment.Add(log, handler))
				cm.Post("/responses", comment.Reply(log, handler))
				cm.Get("/{questionId}", comment.Thread(log, handler))
			})

			private.Route("/chat", func(ch chi.Router) {
				ch.Post("/", chat.Send(log, handler))
				ch.Get("/{userId}", chat.Conversation(log, handler))
			})
		})
	})

	return router
}

func Serve(conf *config.Config, log *slog.Logger, handler Handler, dbName string) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := NewRouter(log, handler, dbName)

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      router,
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIp, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
