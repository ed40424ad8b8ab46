package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fabric-cost/internal/costing"
)

var ErrNotFound = errors.New("calculation not found")

// Calculation is a saved cost calculation: the inputs as entered, the constants
// in effect at calculation time and the computed results.
type Calculation struct {
	ID           string               `json:"id"`
	CustomerName string               `json:"customer_name"`
	Loom         costing.LoomParams   `json:"loom"`
	Materials    []costing.Material   `json:"materials"`
	Constants    costing.Constants    `json:"constants"`
	DirectWarp   costing.DirectWeight `json:"direct_warp"`
	DirectWeft   costing.DirectWeight `json:"direct_weft"`
	Results      costing.Results      `json:"results"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Input rebuilds the calculator input the record was computed from.
func (c *Calculation) Input() costing.Input {
	return costing.Input{
		Loom:       c.Loom,
		Materials:  c.Materials,
		Constants:  c.Constants,
		DirectWarp: c.DirectWarp,
		DirectWeft: c.DirectWeft,
	}
}

type HistoryFilter struct {
	From     time.Time
	To       time.Time
	Customer string
	Limit    int
}

// CalculationRow is the column layout shared by the SQL stores. Structured
// parts are kept as JSON text.
type CalculationRow struct {
	ID               string
	CustomerName     string
	LoomJSON         string
	MaterialsJSON    string
	ConstantsJSON    string
	UseDirectWarp    bool
	DirectWarpWeight string
	UseDirectWeft    bool
	DirectWeftWeight string
	WarpWeight       float64
	WeftWeight       float64
	WarpCost         float64
	WeftCost         float64
	WarpingCost      float64
	LaborCost        float64
	TotalCost        float64
	DailyProduct     float64
	ResultsJSON      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (c *Calculation) Row() (CalculationRow, error) {
	const op = "storage.Calculation.Row"

	loom, err := json.Marshal(c.Loom)
	if err != nil {
		return CalculationRow{}, fmt.Errorf("%s: loom: %w", op, err)
	}
	materials, err := json.Marshal(c.Materials)
	if err != nil {
		return CalculationRow{}, fmt.Errorf("%s: materials: %w", op, err)
	}
	constants, err := json.Marshal(c.Constants.ToMap())
	if err != nil {
		return CalculationRow{}, fmt.Errorf("%s: constants: %w", op, err)
	}
	results, err := json.Marshal(c.Results.Materials)
	if err != nil {
		return CalculationRow{}, fmt.Errorf("%s: results: %w", op, err)
	}

	return CalculationRow{
		ID:               c.ID,
		CustomerName:     c.CustomerName,
		LoomJSON:         string(loom),
		MaterialsJSON:    string(materials),
		ConstantsJSON:    string(constants),
		UseDirectWarp:    c.DirectWarp.Enabled,
		DirectWarpWeight: c.DirectWarp.Value,
		UseDirectWeft:    c.DirectWeft.Enabled,
		DirectWeftWeight: c.DirectWeft.Value,
		WarpWeight:       c.Results.WarpWeight,
		WeftWeight:       c.Results.WeftWeight,
		WarpCost:         c.Results.WarpCost,
		WeftCost:         c.Results.WeftCost,
		WarpingCost:      c.Results.WarpingCost,
		LaborCost:        c.Results.LaborCost,
		TotalCost:        c.Results.TotalCost,
		DailyProduct:     c.Results.DailyProduct,
		ResultsJSON:      string(results),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}, nil
}

func (r CalculationRow) Calculation() (*Calculation, error) {
	const op = "storage.CalculationRow.Calculation"

	c := &Calculation{
		ID:           r.ID,
		CustomerName: r.CustomerName,
		DirectWarp:   costing.DirectWeight{Enabled: r.UseDirectWarp, Value: r.DirectWarpWeight},
		DirectWeft:   costing.DirectWeight{Enabled: r.UseDirectWeft, Value: r.DirectWeftWeight},
		Results: costing.Results{
			WarpCost:     r.WarpCost,
			WeftCost:     r.WeftCost,
			WarpWeight:   r.WarpWeight,
			WeftWeight:   r.WeftWeight,
			WarpingCost:  r.WarpingCost,
			LaborCost:    r.LaborCost,
			TotalCost:    r.TotalCost,
			DailyProduct: r.DailyProduct,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}

	if err := json.Unmarshal([]byte(r.LoomJSON), &c.Loom); err != nil {
		return nil, fmt.Errorf("%s: parse loom id=%s: %w", op, r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.MaterialsJSON), &c.Materials); err != nil {
		return nil, fmt.Errorf("%s: parse materials id=%s: %w", op, r.ID, err)
	}

	var constants map[string]float64
	if err := json.Unmarshal([]byte(r.ConstantsJSON), &constants); err != nil {
		return nil, fmt.Errorf("%s: parse constants id=%s: %w", op, r.ID, err)
	}
	cs, err := costing.ConstantsFromMap(constants)
	if err != nil {
		return nil, fmt.Errorf("%s: id=%s: %w", op, r.ID, err)
	}
	c.Constants = cs

	if r.ResultsJSON != "" {
		if err := json.Unmarshal([]byte(r.ResultsJSON), &c.Results.Materials); err != nil {
			return nil, fmt.Errorf("%s: parse results id=%s: %w", op, r.ID, err)
		}
	}

	return c, nil
}
