package preview

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"fabric-cost/http-server/response"
	"fabric-cost/internal/costing"
)

type Calculator interface {
	Preview(ctx context.Context, in costing.Input) (costing.Results, error)
}

// PreviewCalculation computes the cost without saving it.
func PreviewCalculation(log *slog.Logger, calc Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calculations.PreviewCalculation"

		var req costing.Input
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			response.BadRequest(w, r, "invalid JSON")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := calc.Preview(ctx, req)
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}
