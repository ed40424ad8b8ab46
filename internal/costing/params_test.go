package costing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractParameters_ChineseLabels(t *testing.T) {
	text := "客户：华纺, 筘号:100，穿入=2; 门幅 150, 加边:2, 织缩:1.05, 下机纬密:40, 经纱规格:300, 经纱价:30"

	params := ExtractParameters(text)

	assert.Equal(t, "华纺", params[ParamCustomerName])
	assert.Equal(t, "100", params[ParamBoxNumber])
	assert.Equal(t, "2", params[ParamThreading])
	assert.Equal(t, "150", params[ParamFabricWidth])
	assert.Equal(t, "2", params[ParamEdgeFinishing])
	assert.Equal(t, "1.05", params[ParamFabricShrinkage])
	assert.Equal(t, "40", params[ParamWeftDensity])
	assert.Equal(t, "300", params[ParamWarpYarnValue])
	assert.Equal(t, "30", params[ParamWarpYarnPrice])
}

func TestExtractParameters_EnglishLabelsAndLongestMatch(t *testing.T) {
	text := "Warp yarn price: 28; warp yarn: 150\nweft density=36, edge finishing: 3, unknown: 5"

	params := ExtractParameters(text)

	assert.Equal(t, "28", params[ParamWarpYarnPrice])
	assert.Equal(t, "150", params[ParamWarpYarnValue])
	assert.Equal(t, "36", params[ParamWeftDensity])
	assert.Equal(t, "3", params[ParamEdgeFinishing])
	assert.Len(t, params, 4)
}

func TestExtractParameters_KeepsNegativeSign(t *testing.T) {
	params := ExtractParameters("fixed cost: -3, efficiency - 80, speed=-1.5, width -20")

	assert.Equal(t, "-3", params[ParamFixedCost])
	assert.Equal(t, "80", params[ParamEfficiency])
	assert.Equal(t, "-1.5", params[ParamMachineSpeed])
	assert.Equal(t, "-20", params[ParamFabricWidth])

	var loom LoomParams
	ApplyParameters(params, &loom, &Material{})
	_, err := ValidatePositiveNumber(loom.FixedCost, "fixed cost")
	assert.Error(t, err)
}

func TestExtractParameters_NothingRecognised(t *testing.T) {
	assert.Empty(t, ExtractParameters("hello world"))
	assert.Empty(t, ExtractParameters(""))
}

func TestApplyParameters(t *testing.T) {
	params := map[Param]string{
		ParamCustomerName:  "ACME",
		ParamMachineSpeed:  "550",
		ParamWeftYarnValue: "40",
		ParamWeftYarnType:  "支数",
		ParamWarpYarnPrice: "31",
	}

	var loom LoomParams
	var m Material
	customer := ApplyParameters(params, &loom, &m)

	assert.Equal(t, "ACME", customer)
	assert.Equal(t, "550", loom.MachineSpeed)
	assert.Equal(t, "40", m.WeftYarnValue)
	assert.Equal(t, YarnTypeYarnCount, m.WeftYarnType)
	assert.Equal(t, "31", m.WarpYarnPrice)
}

func TestApplyParameters_UnknownYarnTypeKeepsCurrent(t *testing.T) {
	m := Material{WarpYarnType: YarnTypeYarnCount, WeftYarnType: YarnTypeYarnCount}

	ApplyParameters(map[Param]string{
		ParamWarpYarnType: "bogus",
		ParamWeftYarnType: "D数",
	}, &LoomParams{}, &m)

	assert.Equal(t, YarnTypeYarnCount, m.WarpYarnType)
	assert.Equal(t, YarnTypeDNumber, m.WeftYarnType)
}

func TestYarnType_JSON(t *testing.T) {
	var m Material
	require.NoError(t, json.Unmarshal([]byte(`{"warp_yarn_type":"D数","weft_yarn_type":"yarn_count"}`), &m))
	assert.Equal(t, YarnTypeDNumber, m.WarpYarnType)
	assert.Equal(t, YarnTypeYarnCount, m.WeftYarnType)

	require.NoError(t, json.Unmarshal([]byte(`{"warp_yarn_type":"bogus"}`), &m))
	assert.Equal(t, YarnTypeDNumber, m.WarpYarnType)

	_, err := ParseYarnType("bogus")
	assert.Error(t, err)
}

func TestConstantsMapRoundTrip(t *testing.T) {
	c := DefaultConstants()
	got, err := ConstantsFromMap(c.ToMap())
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = ConstantsFromMap(map[string]float64{"warpDivider": 1})
	assert.Error(t, err)
}

func TestConstantsValidate(t *testing.T) {
	assert.NoError(t, DefaultConstants().Validate())

	c := DefaultConstants()
	c.WeftDivider = 0
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weftDivider")
}
