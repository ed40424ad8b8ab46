package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"fabric-cost/internal/chat"
	"fabric-cost/internal/costing"
	"fabric-cost/internal/storage"
)

type Error struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, Error{Error: msg})
}

// Fail maps service errors to a status code. Only unexpected errors are logged.
func Fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	var (
		verr   *costing.ValidationError
		apiErr *chat.APIError
	)

	switch {
	case errors.As(err, &verr):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, Error{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, storage.ErrNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, Error{Error: "not found"})
	case errors.Is(err, chat.ErrNotConfigured):
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, Error{Error: "assistant is not configured"})
	case errors.As(err, &apiErr):
		log.Warn("assistant request failed",
			slog.String("op", op),
			slog.Int("status", apiErr.StatusCode),
		)
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, Error{Error: "assistant request failed"})
	default:
		log.Error("request failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, Error{Error: "Internal error"})
	}
}
