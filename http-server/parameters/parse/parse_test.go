package parse

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fabric-cost/internal/costing"
	"fabric-cost/internal/service/calculation"
)

type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) ImportParameters(text string, loom costing.LoomParams, mat costing.Material) calculation.Imported {
	args := m.Called(text, loom, mat)
	return args.Get(0).(calculation.Imported)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseParameters(t *testing.T) {
	importer := new(MockImporter)
	importer.On("ImportParameters", "门幅 160", costing.LoomParams{Efficiency: "85"}, mock.Anything).
		Return(calculation.Imported{
			Loom:       costing.LoomParams{Efficiency: "85", FabricWidth: "160"},
			Recognized: map[costing.Param]string{costing.ParamFabricWidth: "160"},
		})

	body := `{"text":"门幅 160","loom":{"efficiency":"85"}}`
	rr := httptest.NewRecorder()
	ParseParameters(discard(), importer).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/parameters/parse", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)

	var got calculation.Imported
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "160", got.Loom.FabricWidth)
	assert.Equal(t, "85", got.Loom.Efficiency)
	assert.Len(t, got.Recognized, 1)
	importer.AssertExpectations(t)
}

func TestParseParameters_EmptyText(t *testing.T) {
	importer := new(MockImporter)

	rr := httptest.NewRecorder()
	ParseParameters(discard(), importer).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/parameters/parse", strings.NewReader(`{"text":"  "}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"text is empty"}`, rr.Body.String())
	importer.AssertNotCalled(t, "ImportParameters", mock.Anything, mock.Anything, mock.Anything)
}
