package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fabric-cost/http-server/response"
	"fabric-cost/internal/costing"
	"fabric-cost/internal/storage"
)

type CalculationUpdater interface {
	Update(ctx context.Context, id, customer string, in costing.Input) (*storage.Calculation, error)
}

type Request struct {
	CustomerName string `json:"customer_name"`
	costing.Input
}

// UpdateCalculation recalculates a saved record with edited inputs.
func UpdateCalculation(log *slog.Logger, updater CalculationUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calculations.UpdateCalculation"

		id := chi.URLParam(r, "id")

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			response.BadRequest(w, r, "invalid JSON")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		c, err := updater.Update(ctx, id, req.CustomerName, req.Input)
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, c)
	}
}
