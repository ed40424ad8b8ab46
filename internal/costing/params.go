package costing

import (
	"strings"
	"unicode/utf8"
)

// Param names a value that can be imported from pasted text.
type Param string

const (
	ParamCustomerName    Param = "customer_name"
	ParamBoxNumber       Param = "box_number"
	ParamThreading       Param = "threading"
	ParamFabricWidth     Param = "fabric_width"
	ParamEdgeFinishing   Param = "edge_finishing"
	ParamFabricShrinkage Param = "fabric_shrinkage"
	ParamWeftDensity     Param = "weft_density"
	ParamMachineSpeed    Param = "machine_speed"
	ParamEfficiency      Param = "efficiency"
	ParamDailyLaborCost  Param = "daily_labor_cost"
	ParamFixedCost       Param = "fixed_cost"
	ParamWarpYarnPrice   Param = "warp_yarn_price"
	ParamWeftYarnPrice   Param = "weft_yarn_price"
	ParamWarpYarnValue   Param = "warp_yarn_value"
	ParamWarpYarnType    Param = "warp_yarn_type"
	ParamWeftYarnValue   Param = "weft_yarn_value"
	ParamWeftYarnType    Param = "weft_yarn_type"
)

var paramSynonyms = map[Param][]string{
	ParamCustomerName:    {"客户名称", "客户", "名称", "customer", "order"},
	ParamBoxNumber:       {"筘号", "k号", "筘", "box number", "reed number", "reed"},
	ParamThreading:       {"穿入", "穿综", "threading", "ends per dent"},
	ParamFabricWidth:     {"门幅", "幅宽", "fabric width", "width"},
	ParamEdgeFinishing:   {"加边", "edge finishing", "edge"},
	ParamFabricShrinkage: {"织缩", "缩率", "fabric shrinkage", "shrinkage"},
	ParamWeftDensity:     {"下机纬密", "纬密", "weft density", "picks"},
	ParamMachineSpeed:    {"车速", "速度", "machine speed", "speed"},
	ParamEfficiency:      {"效率", "efficiency"},
	ParamDailyLaborCost:  {"日工费", "工费", "daily labor cost", "labor cost"},
	ParamFixedCost:       {"牵经费用", "牵经费", "warping cost", "fixed cost"},
	ParamWarpYarnPrice:   {"经纱价", "经纱纱价", "经纱价格", "经价", "经纱", "warp yarn price", "warp price"},
	ParamWeftYarnPrice:   {"纬纱价", "纬纱纱价", "纬纱价格", "纬价", "纬纱", "weft yarn price", "weft price"},
	ParamWarpYarnValue:   {"经纱规格", "经纱支数", "经纱D数", "warp yarn", "warp spec"},
	ParamWarpYarnType:    {"经纱类型", "warp type"},
	ParamWeftYarnValue:   {"纬纱规格", "纬纱支数", "纬纱D数", "weft yarn", "weft spec"},
	ParamWeftYarnType:    {"纬纱类型", "weft type"},
}

const valueSeparators = ":：=-"

// ExtractParameters reads "label: value" fragments separated by commas or
// semicolons. The longest synonym a fragment starts with decides the
// parameter; unknown fragments are ignored and later fragments win.
func ExtractParameters(text string) map[Param]string {
	out := make(map[Param]string)
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ',', ';', '，', '；', '\n':
			return true
		}
		return false
	})

	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		lower := strings.ToLower(fragment)

		var (
			matched Param
			best    string
		)
		for p, synonyms := range paramSynonyms {
			for _, s := range synonyms {
				if strings.HasPrefix(lower, strings.ToLower(s)) && len(s) > len(best) {
					matched, best = p, s
				}
			}
		}
		if best == "" {
			continue
		}

		value := paramValue(fragment[len(best):])
		if value == "" {
			continue
		}
		out[matched] = value
	}
	return out
}

// paramValue drops one separator after the label. A minus directly followed
// by a digit is the sign of the value and stays.
func paramValue(rest string) string {
	rest = strings.TrimSpace(rest)

	r, size := utf8.DecodeRuneInString(rest)
	if size > 0 && strings.ContainsRune(valueSeparators, r) {
		signed := r == '-' && len(rest) > size && rest[size] >= '0' && rest[size] <= '9'
		if !signed {
			rest = rest[size:]
		}
	}

	return strings.TrimSpace(rest)
}

// ApplyParameters copies extracted values into loom and material and returns
// the customer name, if one was present.
func ApplyParameters(params map[Param]string, loom *LoomParams, m *Material) string {
	targets := map[Param]*string{
		ParamBoxNumber:       &loom.BoxNumber,
		ParamThreading:       &loom.Threading,
		ParamFabricWidth:     &loom.FabricWidth,
		ParamEdgeFinishing:   &loom.EdgeFinishing,
		ParamFabricShrinkage: &loom.FabricShrinkage,
		ParamWeftDensity:     &loom.WeftDensity,
		ParamMachineSpeed:    &loom.MachineSpeed,
		ParamEfficiency:      &loom.Efficiency,
		ParamDailyLaborCost:  &loom.DailyLaborCost,
		ParamFixedCost:       &loom.FixedCost,
		ParamWarpYarnPrice:   &m.WarpYarnPrice,
		ParamWeftYarnPrice:   &m.WeftYarnPrice,
		ParamWarpYarnValue:   &m.WarpYarnValue,
		ParamWeftYarnValue:   &m.WeftYarnValue,
	}
	for p, v := range params {
		if dst, ok := targets[p]; ok {
			*dst = v
		}
	}

	// unknown labels leave the current type alone
	if v, ok := params[ParamWarpYarnType]; ok {
		if t, err := ParseYarnType(v); err == nil {
			m.WarpYarnType = t
		}
	}
	if v, ok := params[ParamWeftYarnType]; ok {
		if t, err := ParseYarnType(v); err == nil {
			m.WeftYarnType = t
		}
	}

	return params[ParamCustomerName]
}
