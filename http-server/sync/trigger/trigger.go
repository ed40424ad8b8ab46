package trigger

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"fabric-cost/http-server/response"
	"fabric-cost/internal/service/cloudsync"
)

type Syncer interface {
	SyncOnce(ctx context.Context) (cloudsync.Report, error)
}

// TriggerSync pushes pending records now instead of waiting for the next tick.
func TriggerSync(log *slog.Logger, syncer Syncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sync.TriggerSync"

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		report, err := syncer.SyncOnce(ctx)
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		log.Info("manual sync finished", slog.Int("pushed", report.Pushed), slog.Int("failed", report.Failed))

		render.JSON(w, r, report)
	}
}
