// Package costing estimates the per-meter production cost of a woven fabric
// from loom parameters and a blend of yarn materials.
package costing

import (
	"math"
	"strconv"
	"strings"
)

// LoomParams holds the loom and production inputs as entered, possibly incomplete.
type LoomParams struct {
	BoxNumber       string `json:"box_number"`
	Threading       string `json:"threading"`
	FabricWidth     string `json:"fabric_width"`
	EdgeFinishing   string `json:"edge_finishing"`
	FabricShrinkage string `json:"fabric_shrinkage"`
	WeftDensity     string `json:"weft_density"`
	MachineSpeed    string `json:"machine_speed"`
	Efficiency      string `json:"efficiency"`
	DailyLaborCost  string `json:"daily_labor_cost"`
	FixedCost       string `json:"fixed_cost"`
}

// DirectWeight replaces the geometric weight formula of one direction with a
// known weight in grams per meter.
type DirectWeight struct {
	Enabled bool   `json:"enabled"`
	Value   string `json:"value"`
}

type Input struct {
	Loom       LoomParams   `json:"loom"`
	Materials  []Material   `json:"materials"`
	Constants  Constants    `json:"constants"`
	DirectWarp DirectWeight `json:"direct_warp"`
	DirectWeft DirectWeight `json:"direct_weft"`
}

type loomValues struct {
	boxNumber       float64
	threading       float64
	fabricWidth     float64
	edgeFinishing   float64
	fabricShrinkage float64
	weftDensity     float64
	machineSpeed    float64
	efficiency      float64
	dailyLaborCost  float64
	fixedCost       float64
}

func (v loomValues) actualFabricWidth() float64 {
	return v.fabricWidth + v.edgeFinishing
}

func (v loomValues) warpEnds() float64 {
	return v.boxNumber * v.threading * v.actualFabricWidth()
}

// number reads an already validated field; empty text is 0.
func number(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return v
}

func extractLoomValues(p LoomParams, directWarp, directWeft bool) loomValues {
	v := loomValues{
		weftDensity:    number(p.WeftDensity),
		machineSpeed:   number(p.MachineSpeed),
		efficiency:     number(p.Efficiency),
		dailyLaborCost: number(p.DailyLaborCost),
		fixedCost:      number(p.FixedCost),
	}
	if !directWarp {
		v.boxNumber = number(p.BoxNumber)
		v.threading = number(p.Threading)
		v.fabricShrinkage = number(p.FabricShrinkage)
	}
	if !directWarp || !directWeft {
		v.fabricWidth = number(p.FabricWidth)
		v.edgeFinishing = number(p.EdgeFinishing)
	}
	return v
}

// DValue converts a fineness value to denier. Yarn count must be > 0, which
// ValidateMaterial guarantees before this is reached.
func DValue(yarnValue float64, yarnType YarnType, defaultDValue float64) float64 {
	if yarnType == YarnTypeYarnCount {
		return defaultDValue / yarnValue
	}
	return yarnValue
}

// DailyProduct is the fabric length produced per day, 0 when it cannot be computed.
func DailyProduct(machineSpeed, efficiency, weftDensity, minutesPerDay float64) float64 {
	p := (machineSpeed * (efficiency / 100) * minutesPerDay) / (weftDensity * 100)
	if math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return 0
	}
	return p
}

// Calculate validates in and computes weights and costs per meter of fabric.
// The first violated rule is returned as a *ValidationError and no result is
// produced.
func Calculate(in Input) (Results, error) {
	if err := ValidateMaterialRatios(in.Materials); err != nil {
		return Results{}, err
	}
	if err := ValidateBasicInputs(in.Loom, in.DirectWarp, in.DirectWeft); err != nil {
		return Results{}, err
	}

	useDirectWarp, useDirectWeft := in.DirectWarp.Enabled, in.DirectWeft.Enabled
	values := extractLoomValues(in.Loom, useDirectWarp, useDirectWeft)
	directWarp := number(in.DirectWarp.Value)
	directWeft := number(in.DirectWeft.Value)
	totalWarpRatio, totalWeftRatio := ratioTotals(in.Materials)
	c := in.Constants

	res := Results{Materials: make([]MaterialResult, 0, len(in.Materials))}
	for _, m := range in.Materials {
		if err := ValidateMaterial(m, useDirectWarp, useDirectWeft); err != nil {
			return Results{}, err
		}

		warpFraction := ratioValue(m.WarpRatio) / totalWarpRatio
		weftFraction := ratioValue(m.WeftRatio) / totalWeftRatio

		var warpWeight float64
		if useDirectWarp {
			warpWeight = directWarp * warpFraction
		} else {
			warpD := DValue(number(m.WarpYarnValue), m.WarpYarnType, c.DefaultDValue)
			warpWeight = (values.warpEnds() * warpD * values.fabricShrinkage) / c.WarpDivider * warpFraction
		}

		var weftWeight float64
		if useDirectWeft {
			weftWeight = directWeft * weftFraction
		} else {
			weftD := DValue(number(m.WeftYarnValue), m.WeftYarnType, c.DefaultDValue)
			weftWeight = (weftD * values.actualFabricWidth() * values.weftDensity) / c.WeftDivider * weftFraction
		}

		mr := MaterialResult{
			Material:   m,
			WarpWeight: warpWeight,
			WeftWeight: weftWeight,
			WarpCost:   warpWeight * number(m.WarpYarnPrice) / 1000,
			WeftCost:   weftWeight * number(m.WeftYarnPrice) / 1000,
		}
		res.WarpWeight += mr.WarpWeight
		res.WeftWeight += mr.WeftWeight
		res.WarpCost += mr.WarpCost
		res.WeftCost += mr.WeftCost
		res.Materials = append(res.Materials, mr)
	}

	res.WarpingCost = values.fixedCost
	res.DailyProduct = DailyProduct(values.machineSpeed, values.efficiency, values.weftDensity, c.MinutesPerDay)
	if res.DailyProduct > 0 {
		res.LaborCost = values.dailyLaborCost / res.DailyProduct
	}
	res.TotalCost = res.WarpCost + res.WeftCost + res.WarpingCost + res.LaborCost

	return res, nil
}
