package costing

import (
	"fmt"
	"strings"
)

// YarnType selects how a yarn fineness value is measured.
type YarnType string

const (
	YarnTypeDNumber   YarnType = "d_number"
	YarnTypeYarnCount YarnType = "yarn_count"
)

// ParseYarnType accepts the canonical names plus the labels older records were saved with.
func ParseYarnType(s string) (YarnType, error) {
	switch strings.TrimSpace(s) {
	case "d_number", "D_NUMBER", "D数", "D":
		return YarnTypeDNumber, nil
	case "yarn_count", "YARN_COUNT", "支数", "count":
		return YarnTypeYarnCount, nil
	}
	return "", fmt.Errorf("unknown yarn type %q", s)
}

func (t YarnType) MarshalText() ([]byte, error) {
	if t == "" {
		return []byte(YarnTypeDNumber), nil
	}
	return []byte(t), nil
}

// UnmarshalText falls back to d_number for empty or unknown values so that
// historical records always load.
func (t *YarnType) UnmarshalText(b []byte) error {
	parsed, err := ParseYarnType(string(b))
	if err != nil {
		*t = YarnTypeDNumber
		return nil
	}
	*t = parsed
	return nil
}

func (t YarnType) label() string {
	if t == YarnTypeYarnCount {
		return "yarn count"
	}
	return "D-number"
}

// Material is one component of the yarn blend.
type Material struct {
	Name          string   `json:"name"`
	WarpYarnValue string   `json:"warp_yarn_value"`
	WarpYarnType  YarnType `json:"warp_yarn_type"`
	WeftYarnValue string   `json:"weft_yarn_value"`
	WeftYarnType  YarnType `json:"weft_yarn_type"`
	WarpYarnPrice string   `json:"warp_yarn_price"`
	WeftYarnPrice string   `json:"weft_yarn_price"`
	// nil or empty means the material takes no share in that direction
	WarpRatio *string `json:"warp_ratio,omitempty"`
	WeftRatio *string `json:"weft_ratio,omitempty"`
}

// Ratio is a small helper for building materials in code.
func Ratio(s string) *string {
	return &s
}

func ratioText(r *string) string {
	if r == nil {
		return ""
	}
	return *r
}
