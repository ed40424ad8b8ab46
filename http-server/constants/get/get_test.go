package get

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fabric-cost/internal/costing"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Constants(ctx context.Context) (costing.Constants, error) {
	args := m.Called(ctx)
	return args.Get(0).(costing.Constants), args.Error(1)
}

func TestGetConstants(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Constants", mock.Anything).Return(costing.DefaultConstants(), nil)

	rr := httptest.NewRecorder()
	GetConstants(slog.New(slog.NewTextHandler(io.Discard, nil)), provider).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/constants", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"warp_divider":9000`)
	assert.Contains(t, rr.Body.String(), `"default_d_value":5315`)
}
