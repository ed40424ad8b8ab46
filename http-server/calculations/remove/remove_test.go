package remove

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fabric-cost/internal/storage"
)

type MockDeleter struct {
	mock.Mock
}

func (m *MockDeleter) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestDeleteCalculation(t *testing.T) {
	deleter := new(MockDeleter)
	deleter.On("Delete", mock.Anything, "abc").Return(nil)
	deleter.On("Delete", mock.Anything, "gone").Return(storage.ErrNotFound)

	router := chi.NewRouter()
	router.Delete("/api/calculations/{id}", DeleteCalculation(slog.New(slog.NewTextHandler(io.Discard, nil)), deleter))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/calculations/abc", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/calculations/gone", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	deleter.AssertExpectations(t)
}
