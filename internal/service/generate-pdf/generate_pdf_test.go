package generate_pdf

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fabric-cost/internal/costing"
	"fabric-cost/internal/storage"
)

type MockGetter struct {
	mock.Mock
}

func (m *MockGetter) Get(ctx context.Context, id string) (*storage.Calculation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Calculation), args.Error(1)
}

func calculationFixture(t *testing.T) *storage.Calculation {
	t.Helper()

	c := &storage.Calculation{
		ID:           "3f1c7d7e-1111-4222-8333-944455556666",
		CustomerName: "Müller & Co",
		Loom: costing.LoomParams{
			BoxNumber: "100", Threading: "2", FabricWidth: "150", EdgeFinishing: "2",
			FabricShrinkage: "1.05", WeftDensity: "40", MachineSpeed: "600",
			Efficiency: "80", DailyLaborCost: "300", FixedCost: "0.5",
		},
		Materials: []costing.Material{{
			Name: "cotton", WarpYarnValue: "300", WarpYarnType: costing.YarnTypeDNumber,
			WeftYarnValue: "32", WeftYarnType: costing.YarnTypeYarnCount,
			WarpYarnPrice: "30", WeftYarnPrice: "25",
			WarpRatio: costing.Ratio("1"), WeftRatio: costing.Ratio("1"),
		}},
		Constants: costing.DefaultConstants(),
		CreatedAt: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	res, err := costing.Calculate(c.Input())
	require.NoError(t, err)
	c.Results = res
	return c
}

func TestGeneratePDF(t *testing.T) {
	g := new(MockGetter)
	c := calculationFixture(t)
	g.On("Get", mock.Anything, c.ID).Return(c, nil)

	data, err := NewGenerateService(g, nil).GeneratePDF(context.Background(), c.ID)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(data), "%%EOF")
}

func TestGeneratePDF_NotFound(t *testing.T) {
	g := new(MockGetter)
	g.On("Get", mock.Anything, "missing").Return(nil, storage.ErrNotFound)

	_, err := NewGenerateService(g, nil).GeneratePDF(context.Background(), "missing")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestNum(t *testing.T) {
	assert.Equal(t, "2.68", num(2.675, 2))
	assert.Equal(t, "9000", num(9000, 0))
	assert.Equal(t, "0.100", num(0.1, 3))
}
