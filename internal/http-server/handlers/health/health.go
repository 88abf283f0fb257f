package health

import (
	"net/http"

	"github.com/go-chi/render"

	"edumov/lib/clock"
)

type status struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Db        string `json:"db"`
}

// Check is the unauthenticated liveness probe.
func Check(dbName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, status{
			Status:    "OK",
			Timestamp: clock.Now(),
			Db:        dbName,
		})
	}
}
