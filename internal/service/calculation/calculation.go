package calculation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"fabric-cost/internal/costing"
	"fabric-cost/internal/metrics"
	"fabric-cost/internal/storage"
)

type CalculationStorage interface {
	SaveCalculation(ctx context.Context, c *storage.Calculation) error
	GetCalculation(ctx context.Context, id string) (*storage.Calculation, error)
	ListCalculations(ctx context.Context, filter storage.HistoryFilter) ([]*storage.Calculation, error)
	UpdateCalculation(ctx context.Context, c *storage.Calculation) error
	DeleteCalculation(ctx context.Context, id string) error
	GetConstants(ctx context.Context) (costing.Constants, error)
	UpdateConstants(ctx context.Context, c costing.Constants) error
}

type Service struct {
	storage  CalculationStorage
	defaults costing.Constants
	metrics  *metrics.Metrics
	now      func() time.Time
}

// New builds the service. defaults apply until an administrator stores
// constants of their own.
func New(storage CalculationStorage, defaults costing.Constants, m *metrics.Metrics) *Service {
	return &Service{
		storage:  storage,
		defaults: defaults,
		metrics:  m,
		now:      time.Now,
	}
}

// Preview runs the calculator without saving anything.
func (s *Service) Preview(ctx context.Context, in costing.Input) (costing.Results, error) {
	if in.Constants == (costing.Constants{}) {
		cs, err := s.Constants(ctx)
		if err != nil {
			return costing.Results{}, err
		}
		in.Constants = cs
	}

	return s.calculate(in)
}

func (s *Service) Create(ctx context.Context, customer string, in costing.Input) (*storage.Calculation, error) {
	const op = "service.calculation.Create"

	if in.Constants == (costing.Constants{}) {
		cs, err := s.Constants(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		in.Constants = cs
	}

	res, err := s.calculate(in)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := &storage.Calculation{
		ID:           uuid.NewString(),
		CustomerName: strings.TrimSpace(customer),
		Loom:         in.Loom,
		Materials:    in.Materials,
		Constants:    in.Constants,
		DirectWarp:   in.DirectWarp,
		DirectWeft:   in.DirectWeft,
		Results:      res,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveCalculation(ctx, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*storage.Calculation, error) {
	const op = "service.calculation.Get"

	c, err := s.storage.GetCalculation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// List applies the date range in storage and the customer search here.
func (s *Service) List(ctx context.Context, filter storage.HistoryFilter) ([]*storage.Calculation, error) {
	const op = "service.calculation.List"

	search := strings.TrimSpace(filter.Customer)
	query := filter
	if search != "" {
		// limit applies after matching
		query.Limit = 0
	}

	records, err := s.storage.ListCalculations(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if search == "" {
		return records, nil
	}

	matched := make([]*storage.Calculation, 0, len(records))
	for _, r := range records {
		if !FuzzyMatch(search, r.CustomerName) {
			continue
		}
		matched = append(matched, r)
		if filter.Limit > 0 && len(matched) == filter.Limit {
			break
		}
	}

	return matched, nil
}

// Update recalculates an existing record. A zero constants snapshot in the
// input keeps the one the record was saved with.
func (s *Service) Update(ctx context.Context, id, customer string, in costing.Input) (*storage.Calculation, error) {
	const op = "service.calculation.Update"

	c, err := s.storage.GetCalculation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if in.Constants == (costing.Constants{}) {
		in.Constants = c.Constants
	}

	res, err := s.calculate(in)
	if err != nil {
		return nil, err
	}

	c.CustomerName = strings.TrimSpace(customer)
	c.Loom = in.Loom
	c.Materials = in.Materials
	c.Constants = in.Constants
	c.DirectWarp = in.DirectWarp
	c.DirectWeft = in.DirectWeft
	c.Results = res
	c.UpdatedAt = s.now().UTC()

	if err := s.storage.UpdateCalculation(ctx, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "service.calculation.Delete"

	if err := s.storage.DeleteCalculation(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Constants returns the stored constants or the configured defaults.
func (s *Service) Constants(ctx context.Context) (costing.Constants, error) {
	const op = "service.calculation.Constants"

	cs, err := s.storage.GetConstants(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return s.defaults, nil
		}
		return costing.Constants{}, fmt.Errorf("%s: %w", op, err)
	}
	return cs, nil
}

func (s *Service) UpdateConstants(ctx context.Context, cs costing.Constants) error {
	const op = "service.calculation.UpdateConstants"

	if err := cs.Validate(); err != nil {
		return err
	}

	if err := s.storage.UpdateConstants(ctx, cs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Imported is the result of reading parameters out of pasted text.
type Imported struct {
	CustomerName string                   `json:"customer_name,omitempty"`
	Loom         costing.LoomParams       `json:"loom"`
	Material     costing.Material         `json:"material"`
	Recognized   map[costing.Param]string `json:"recognized"`
}

// ImportParameters fills the supplied loom and material with whatever the
// text names and leaves the other fields untouched.
func (s *Service) ImportParameters(text string, loom costing.LoomParams, m costing.Material) Imported {
	params := costing.ExtractParameters(text)
	customer := costing.ApplyParameters(params, &loom, &m)

	return Imported{
		CustomerName: customer,
		Loom:         loom,
		Material:     m,
		Recognized:   params,
	}
}

// calculate validates the constants snapshot too: a client may send its own.
func (s *Service) calculate(in costing.Input) (costing.Results, error) {
	if err := in.Constants.Validate(); err != nil {
		s.metrics.CalculationRejected()
		return costing.Results{}, err
	}

	res, err := costing.Calculate(in)
	if err != nil {
		s.metrics.CalculationRejected()
		return costing.Results{}, err
	}

	s.metrics.CalculationSucceeded(res.TotalCost)
	return res, nil
}

// FuzzyMatch reports whether the letters of search appear in target in the
// same order, ignoring case. An empty search matches everything.
func FuzzyMatch(search, target string) bool {
	want := []rune(search)
	if len(want) == 0 {
		return true
	}

	i := 0
	for _, r := range target {
		if unicode.ToLower(r) == unicode.ToLower(want[i]) {
			i++
			if i == len(want) {
				return true
			}
		}
	}
	return false
}

// DayRange widens the dates to cover the whole first and last day, up to the
// last nanosecond before midnight, in the location of each value.
func DayRange(from, to time.Time) (time.Time, time.Time) {
	var start, end time.Time
	if !from.IsZero() {
		start = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	}
	if !to.IsZero() {
		end = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).
			AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return start, end
}
