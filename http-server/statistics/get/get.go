package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"fabric-cost/http-server/response"
	"fabric-cost/internal/service/statistics"
)

type SummaryProvider interface {
	Summary(ctx context.Context, now time.Time) (statistics.Summary, error)
}

func GetStatistics(log *slog.Logger, stats SummaryProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.statistics.GetStatistics"

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		sum, err := stats.Summary(ctx, time.Now())
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, sum)
	}
}
