package remove

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fabric-cost/http-server/response"
)

type CalculationDeleter interface {
	Delete(ctx context.Context, id string) error
}

func DeleteCalculation(log *slog.Logger, deleter CalculationDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calculations.DeleteCalculation"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := deleter.Delete(ctx, id); err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		log.Info("calculation deleted", slog.String("id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}
