package costing

import (
	"fmt"
	"math"
)

// Constants are the mill-specific tuning values used by the weight formulas.
// A calculation record keeps its own copy so it can be replayed later.
type Constants struct {
	WarpDivider   float64 `json:"warp_divider" yaml:"warp_divider"`
	WeftDivider   float64 `json:"weft_divider" yaml:"weft_divider"`
	MinutesPerDay float64 `json:"minutes_per_day" yaml:"minutes_per_day"`
	DefaultDValue float64 `json:"default_d_value" yaml:"default_d_value"`
}

const (
	keyWarpDivider   = "warpDivider"
	keyWeftDivider   = "weftDivider"
	keyMinutesPerDay = "minutesPerDay"
	keyDefaultDValue = "defaultDValue"
)

func DefaultConstants() Constants {
	return Constants{
		WarpDivider:   9000,
		WeftDivider:   9000,
		MinutesPerDay: 1440,
		DefaultDValue: 5315,
	}
}

func (c Constants) ToMap() map[string]float64 {
	return map[string]float64{
		keyWarpDivider:   c.WarpDivider,
		keyWeftDivider:   c.WeftDivider,
		keyMinutesPerDay: c.MinutesPerDay,
		keyDefaultDValue: c.DefaultDValue,
	}
}

func ConstantsFromMap(m map[string]float64) (Constants, error) {
	var c Constants
	fields := []struct {
		key string
		dst *float64
	}{
		{keyWarpDivider, &c.WarpDivider},
		{keyWeftDivider, &c.WeftDivider},
		{keyMinutesPerDay, &c.MinutesPerDay},
		{keyDefaultDValue, &c.DefaultDValue},
	}
	for _, f := range fields {
		v, ok := m[f.key]
		if !ok {
			return Constants{}, fmt.Errorf("constants: missing %q", f.key)
		}
		*f.dst = v
	}
	return c, nil
}

// Validate is used when constants are overridden by an administrator.
func (c Constants) Validate() error {
	m := c.ToMap()
	for _, key := range []string{keyWarpDivider, keyWeftDivider, keyMinutesPerDay, keyDefaultDValue} {
		v := m[key]
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return &ValidationError{Field: key, Message: fmt.Sprintf("%s must be greater than zero", key)}
		}
	}
	return nil
}
