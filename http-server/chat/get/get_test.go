package get

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

	"fabric-cost/internal/chat"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Conversations(ctx context.Context) ([]chat.Conversation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chat.Conversation), args.Error(1)
}

func (m *MockProvider) Messages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chat.Message), args.Error(1)
}

func newRouter(p ConversationProvider) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	router.Get("/api/chat/conversations", GetConversations(log, p))
	router.Get("/api/chat/conversations/{id}/messages", GetMessages(log, p))
	return router
}

func TestGetConversations(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Conversations", mock.Anything).
		Return([]chat.Conversation{{ID: "c1", Title: "Pricing"}}, nil)

	rr := httptest.NewRecorder()
	newRouter(provider).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/chat/conversations", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"Pricing"`)
}

func TestGetMessages(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Messages", mock.Anything, "c1").
		Return([]chat.Message{{Text: "hi", IsUser: true}, {Text: "hello"}}, nil)

	rr := httptest.NewRecorder()
	newRouter(provider).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/chat/conversations/c1/messages", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"is_user":true`)
	provider.AssertExpectations(t)
}

func TestGetMessages_UpstreamError(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Messages", mock.Anything, "c1").Return(nil, &chat.APIError{StatusCode: 404, Body: "no such conversation"})

	rr := httptest.NewRecorder()
	newRouter(provider).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/chat/conversations/c1/messages", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
