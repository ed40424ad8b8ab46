package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"fabric-cost/http-server/response"
	"fabric-cost/internal/costing"
)

type ConstantsUpdater interface {
	UpdateConstants(ctx context.Context, cs costing.Constants) error
}

// UpdateConstantsAdmin replaces the default constants used by new calculations.
// Saved records keep their own copy.
func UpdateConstantsAdmin(log *slog.Logger, updater ConstantsUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.constants.UpdateConstantsAdmin"

		var req costing.Constants
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			response.BadRequest(w, r, "invalid JSON")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := updater.UpdateConstants(ctx, req); err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		log.Info("constants updated", slog.Any("constants", req))

		render.JSON(w, r, req)
	}
}
