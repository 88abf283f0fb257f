package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"edumov/entity"
)

// ErrBody is the error contract of the whole API: {"error": "..."}.
type ErrBody struct {
	Error string `json:"error"`
}

// MsgBody is the plain acknowledgement contract: {"message": "..."}.
type MsgBody struct {
	Message string `json:"message"`
}

func Error(message string) ErrBody {
	return ErrBody{Error: message}
}

func Message(message string) MsgBody {
	return MsgBody{Message: message}
}

// StatusFor maps the service error taxonomy to an HTTP status. Anything
// outside the taxonomy is a storage or programming failure and becomes 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RenderError writes err with its taxonomy status. Internal errors are not
// echoed to the client.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	render.Status(r, status)
	render.JSON(w, r, Error(message))
}
