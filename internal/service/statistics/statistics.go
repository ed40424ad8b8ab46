package statistics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fabric-cost/internal/storage"
)

type HistoryStorage interface {
	ListCalculations(ctx context.Context, filter storage.HistoryFilter) ([]*storage.Calculation, error)
}

type Service struct {
	storage HistoryStorage
}

func New(storage HistoryStorage) *Service {
	return &Service{storage: storage}
}

type Summary struct {
	Count        int     `json:"count"`
	TodayCount   int     `json:"today_count"`
	AverageTotal float64 `json:"average_total_cost"`
	MaxTotal     float64 `json:"max_total_cost"`

	MonthCount      int     `json:"month_count"`
	MonthAverage    float64 `json:"month_average_cost"`
	MonthProduction float64 `json:"month_total_production"`

	AverageWarpWeight   float64 `json:"average_warp_weight"`
	AverageWeftWeight   float64 `json:"average_weft_weight"`
	AverageDailyProduct float64 `json:"average_daily_product"`
	AverageWarpCost     float64 `json:"average_warp_cost"`
	AverageWeftCost     float64 `json:"average_weft_cost"`
	AverageLaborCost    float64 `json:"average_labor_cost"`
	AverageWarpingCost  float64 `json:"average_warping_cost"`
}

// Summary aggregates the whole history plus the calendar month and day
// that contain now, in now's location.
func (s *Service) Summary(ctx context.Context, now time.Time) (Summary, error) {
	const op = "service.statistics.Summary"

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)

	var all, month, today []*storage.Calculation

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.storage.ListCalculations(gCtx, storage.HistoryFilter{})
		if err != nil {
			return fmt.Errorf("all: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		month, err = s.storage.ListCalculations(gCtx, storage.HistoryFilter{From: monthStart, To: monthEnd})
		if err != nil {
			return fmt.Errorf("month: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		today, err = s.storage.ListCalculations(gCtx, storage.HistoryFilter{From: dayStart, To: dayEnd})
		if err != nil {
			return fmt.Errorf("today: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	sum := Summary{
		Count:      len(all),
		TodayCount: len(today),
		MonthCount: len(month),
	}

	for _, c := range all {
		r := c.Results
		sum.AverageTotal += r.TotalCost
		sum.AverageWarpWeight += r.WarpWeight
		sum.AverageWeftWeight += r.WeftWeight
		sum.AverageDailyProduct += r.DailyProduct
		sum.AverageWarpCost += r.WarpCost
		sum.AverageWeftCost += r.WeftCost
		sum.AverageLaborCost += r.LaborCost
		sum.AverageWarpingCost += r.WarpingCost
		if r.TotalCost > sum.MaxTotal {
			sum.MaxTotal = r.TotalCost
		}
	}
	if n := float64(len(all)); n > 0 {
		sum.AverageTotal /= n
		sum.AverageWarpWeight /= n
		sum.AverageWeftWeight /= n
		sum.AverageDailyProduct /= n
		sum.AverageWarpCost /= n
		sum.AverageWeftCost /= n
		sum.AverageLaborCost /= n
		sum.AverageWarpingCost /= n
	}

	for _, c := range month {
		sum.MonthAverage += c.Results.TotalCost
		sum.MonthProduction += c.Results.DailyProduct
	}
	if len(month) > 0 {
		sum.MonthAverage /= float64(len(month))
	}

	return sum, nil
}
