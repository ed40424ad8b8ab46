package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"fabric-cost/http-server/response"
	"fabric-cost/internal/costing"
	"fabric-cost/internal/storage"
)

type CalculationCreator interface {
	Create(ctx context.Context, customer string, in costing.Input) (*storage.Calculation, error)
}

type Request struct {
	CustomerName string `json:"customer_name"`
	costing.Input
}

func SaveCalculation(log *slog.Logger, creator CalculationCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calculations.SaveCalculation"

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			response.BadRequest(w, r, "invalid JSON")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		c, err := creator.Create(ctx, req.CustomerName, req.Input)
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		log.Info("calculation saved", slog.String("id", c.ID))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, c)
	}
}
