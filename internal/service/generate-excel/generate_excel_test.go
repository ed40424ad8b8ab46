package generate_excel

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fabric-cost/internal/costing"
	"fabric-cost/internal/storage"
)

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) List(ctx context.Context, filter storage.HistoryFilter) ([]*storage.Calculation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.Calculation), args.Error(1)
}

func TestGenerateExcel(t *testing.T) {
	h := new(MockHistory)
	filter := storage.HistoryFilter{Customer: "acme"}

	records := []*storage.Calculation{{
		ID:           "1",
		CustomerName: "Acme",
		CreatedAt:    time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Materials:    []costing.Material{{Name: "cotton"}, {Name: "silk"}},
		Results: costing.Results{
			WarpWeight: 1064,
			TotalCost:  2.675,
			Materials: []costing.MaterialResult{
				{Material: costing.Material{Name: "cotton", WarpRatio: costing.Ratio("3")}, WarpWeight: 798},
				{Material: costing.Material{Name: "silk", WarpRatio: costing.Ratio("1")}, WarpWeight: 266},
			},
		},
	}}
	h.On("List", mock.Anything, filter).Return(records, nil)

	data, err := NewGenerateService(h, nil).GenerateExcel(context.Background(), filter)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{historySheet, materialsSheet}, f.GetSheetList())

	header, err := f.GetCellValue(historySheet, "J1")
	require.NoError(t, err)
	assert.Equal(t, "Total cost", header)

	customer, err := f.GetCellValue(historySheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Acme", customer)

	total, err := f.GetCellValue(historySheet, "J2")
	require.NoError(t, err)
	assert.Equal(t, "2.68", total)

	material, err := f.GetCellValue(materialsSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "silk", material)

	weight, err := f.GetCellValue(materialsSheet, "F3")
	require.NoError(t, err)
	assert.Equal(t, "266", weight)
}

func TestGenerateExcel_StorageError(t *testing.T) {
	h := new(MockHistory)
	h.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := NewGenerateService(h, nil).GenerateExcel(context.Background(), storage.HistoryFilter{})
	assert.Error(t, err)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 2.68, round(2.675, 2))
	assert.Equal(t, 0.1, round(0.1000000001, 2))
}
