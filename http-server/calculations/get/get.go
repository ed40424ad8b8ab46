package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fabric-cost/http-server/response"
	"fabric-cost/internal/service/calculation"
	"fabric-cost/internal/storage"
)

const dateLayout = "2006-01-02"

type CalculationLister interface {
	List(ctx context.Context, filter storage.HistoryFilter) ([]*storage.Calculation, error)
}

type CalculationGetter interface {
	Get(ctx context.Context, id string) (*storage.Calculation, error)
}

// ParseHistoryFilter reads from, to (YYYY-MM-DD, whole days), customer and limit.
func ParseHistoryFilter(r *http.Request) (storage.HistoryFilter, error) {
	q := r.URL.Query()

	var (
		filter   storage.HistoryFilter
		from, to time.Time
		err      error
	)

	if s := q.Get("from"); s != "" {
		from, err = time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			return filter, errors.New("invalid from date")
		}
	}
	if s := q.Get("to"); s != "" {
		to, err = time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			return filter, errors.New("invalid to date")
		}
	}
	filter.From, filter.To = calculation.DayRange(from, to)

	if s := q.Get("limit"); s != "" {
		filter.Limit, err = strconv.Atoi(s)
		if err != nil || filter.Limit < 0 {
			return filter, errors.New("invalid limit")
		}
	}

	filter.Customer = q.Get("customer")

	return filter, nil
}

func GetCalculations(log *slog.Logger, lister CalculationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calculations.GetCalculations"

		filter, err := ParseHistoryFilter(r)
		if err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		records, err := lister.List(ctx, filter)
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		if records == nil {
			records = []*storage.Calculation{}
		}

		render.JSON(w, r, records)
	}
}

func GetCalculation(log *slog.Logger, getter CalculationGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calculations.GetCalculation"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		c, err := getter.Get(ctx, id)
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, c)
	}
}
