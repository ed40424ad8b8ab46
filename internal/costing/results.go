package costing

// MaterialResult is the contribution of a single material, weights in grams
// per meter and costs in currency per meter.
type MaterialResult struct {
	Material   Material `json:"material"`
	WarpWeight float64  `json:"warp_weight"`
	WeftWeight float64  `json:"weft_weight"`
	WarpCost   float64  `json:"warp_cost"`
	WeftCost   float64  `json:"weft_cost"`
}

type Results struct {
	WarpCost     float64          `json:"warp_cost"`
	WeftCost     float64          `json:"weft_cost"`
	WarpWeight   float64          `json:"warp_weight"`
	WeftWeight   float64          `json:"weft_weight"`
	WarpingCost  float64          `json:"warping_cost"`
	LaborCost    float64          `json:"labor_cost"`
	TotalCost    float64          `json:"total_cost"`
	DailyProduct float64          `json:"daily_product"`
	Materials    []MaterialResult `json:"materials"`
}
