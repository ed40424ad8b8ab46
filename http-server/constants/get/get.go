package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"fabric-cost/http-server/response"
	"fabric-cost/internal/costing"
)

type ConstantsProvider interface {
	Constants(ctx context.Context) (costing.Constants, error)
}

func GetConstants(log *slog.Logger, provider ConstantsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.constants.GetConstants"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		cs, err := provider.Constants(ctx)
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, cs)
	}
}
