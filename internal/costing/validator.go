package costing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError reports the first input rule a calculation violated.
// Message is meant to be shown to the user as is.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

type field struct {
	key   string
	label string
}

var (
	fieldBoxNumber       = field{"box_number", "box number"}
	fieldThreading       = field{"threading", "threading"}
	fieldFabricWidth     = field{"fabric_width", "fabric width"}
	fieldEdgeFinishing   = field{"edge_finishing", "edge finishing"}
	fieldFabricShrinkage = field{"fabric_shrinkage", "fabric shrinkage"}
	fieldWeftDensity     = field{"weft_density", "weft density"}
	fieldMachineSpeed    = field{"machine_speed", "machine speed"}
	fieldEfficiency      = field{"efficiency", "efficiency"}
	fieldDailyLaborCost  = field{"daily_labor_cost", "daily labor cost"}
	fieldFixedCost       = field{"fixed_cost", "warping cost"}
	fieldDirectWarp      = field{"direct_warp_weight", "warp weight"}
	fieldDirectWeft      = field{"direct_weft_weight", "weft weight"}
)

const msgRatioSumZero = "material ratio sum must not be zero"

// parseAmount accepts finite numbers >= 0.
func parseAmount(text string) (float64, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// ValidatePositiveNumber validates a required field. Zero is accepted.
func ValidatePositiveNumber(text, fieldName string) (float64, error) {
	return validateRequired(strings.TrimSpace(text), field{key: fieldName, label: fieldName})
}

// ValidateNonNegativeNumber validates an optional field, empty text is 0.
func ValidateNonNegativeNumber(text, fieldName string) (float64, error) {
	return validateOptional(strings.TrimSpace(text), field{key: fieldName, label: fieldName})
}

func validateRequired(text string, f field) (float64, error) {
	if text == "" {
		return 0, &ValidationError{Field: f.key, Message: "enter " + f.label}
	}
	v, ok := parseAmount(text)
	if !ok {
		return 0, &ValidationError{Field: f.key, Message: "enter a valid " + f.label}
	}
	return v, nil
}

func validateOptional(text string, f field) (float64, error) {
	if text == "" {
		return 0, nil
	}
	v, ok := parseAmount(text)
	if !ok {
		return 0, &ValidationError{Field: f.key, Message: fmt.Sprintf("enter a valid %s (zero or greater)", f.label)}
	}
	return v, nil
}

// ratioValue is the lenient reading used for ratio totals: missing, empty or
// unparsable ratios count as 0.
func ratioValue(r *string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(ratioText(r)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func ratioTotals(materials []Material) (warp, weft float64) {
	for _, m := range materials {
		warp += ratioValue(m.WarpRatio)
		weft += ratioValue(m.WeftRatio)
	}
	return warp, weft
}

// ValidateMaterialRatios fails when all warp ratios or all weft ratios sum to zero.
func ValidateMaterialRatios(materials []Material) error {
	warp, weft := ratioTotals(materials)
	if warp == 0 {
		return &ValidationError{Field: "warp_ratio", Message: msgRatioSumZero}
	}
	if weft == 0 {
		return &ValidationError{Field: "weft_ratio", Message: msgRatioSumZero}
	}
	return nil
}

// ValidateBasicInputs checks the loom and production parameters. Geometry
// fields are only required for a direction whose weight is not supplied
// directly; weft density is always required because daily production
// depends on it.
func ValidateBasicInputs(loom LoomParams, directWarp, directWeft DirectWeight) error {
	if directWarp.Enabled {
		if _, err := validateRequired(strings.TrimSpace(directWarp.Value), fieldDirectWarp); err != nil {
			return err
		}
	}
	if directWeft.Enabled {
		if _, err := validateRequired(strings.TrimSpace(directWeft.Value), fieldDirectWeft); err != nil {
			return err
		}
	}

	type check struct {
		text string
		f    field
	}
	checks := []check{
		{loom.MachineSpeed, fieldMachineSpeed},
		{loom.Efficiency, fieldEfficiency},
		{loom.DailyLaborCost, fieldDailyLaborCost},
		{loom.FixedCost, fieldFixedCost},
	}
	switch {
	case !directWarp.Enabled:
		checks = append(checks,
			check{loom.BoxNumber, fieldBoxNumber},
			check{loom.Threading, fieldThreading},
			check{loom.FabricWidth, fieldFabricWidth},
			check{loom.EdgeFinishing, fieldEdgeFinishing},
			check{loom.FabricShrinkage, fieldFabricShrinkage},
		)
	case !directWeft.Enabled:
		checks = append(checks,
			check{loom.FabricWidth, fieldFabricWidth},
			check{loom.EdgeFinishing, fieldEdgeFinishing},
		)
	}
	checks = append(checks, check{loom.WeftDensity, fieldWeftDensity})

	for _, c := range checks {
		if _, err := validateRequired(strings.TrimSpace(c.text), c.f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMaterial checks one material. Yarn values are only needed for a
// direction whose weight is derived from loom geometry; prices are always
// needed because cost is weight times price.
func ValidateMaterial(m Material, useDirectWarp, useDirectWeft bool) error {
	if _, err := validateOptional(strings.TrimSpace(ratioText(m.WarpRatio)), field{"warp_ratio", m.Name + " warp ratio"}); err != nil {
		return err
	}
	if _, err := validateOptional(strings.TrimSpace(ratioText(m.WeftRatio)), field{"weft_ratio", m.Name + " weft ratio"}); err != nil {
		return err
	}

	if !useDirectWarp {
		if err := validateYarnValue(m.Name, "warp", m.WarpYarnValue, m.WarpYarnType); err != nil {
			return err
		}
	}
	if !useDirectWeft {
		if err := validateYarnValue(m.Name, "weft", m.WeftYarnValue, m.WeftYarnType); err != nil {
			return err
		}
	}

	if _, err := validateRequired(strings.TrimSpace(m.WarpYarnPrice), field{"warp_yarn_price", m.Name + " warp yarn price"}); err != nil {
		return err
	}
	if _, err := validateRequired(strings.TrimSpace(m.WeftYarnPrice), field{"weft_yarn_price", m.Name + " weft yarn price"}); err != nil {
		return err
	}
	return nil
}

func validateYarnValue(name, direction, text string, yarnType YarnType) error {
	f := field{
		key:   direction + "_yarn_value",
		label: fmt.Sprintf("%s %s yarn %s", name, direction, yarnType.label()),
	}
	v, err := validateRequired(strings.TrimSpace(text), f)
	if err != nil {
		return err
	}
	// yarn count is converted by division
	if yarnType == YarnTypeYarnCount && v <= 0 {
		return &ValidationError{
			Field:   f.key,
			Message: fmt.Sprintf("enter a valid %s %s yarn count (greater than zero)", name, direction),
		}
	}
	return nil
}
