package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", "secret", "tester", 5*time.Second, nil)
}

func TestConversations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/conversations", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "tester", r.URL.Query().Get("user"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))

		w.Write([]byte(`{"limit":20,"has_more":false,"data":[{"id":"c1","name":"Yarn prices","created_at":1710000000}]}`))
	})

	got, err := c.Conversations(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "Yarn prices", got[0].Title)
	assert.Equal(t, int64(1710000000), got[0].CreatedAt.Unix())
}

func TestMessagesExpandToPairs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "c1", r.URL.Query().Get("conversation_id"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		w.Write([]byte(`{"data":[
			{"id":"m1","conversation_id":"c1","query":"hi","answer":"hello","created_at":1},
			{"id":"m2","conversation_id":"c1","query":"cost?","answer":"3.2","created_at":2}
		]}`))
	})

	got, err := c.Messages(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, Message{Text: "hi", IsUser: true, CreatedAt: time.Unix(1, 0).UTC()}, got[0])
	assert.Equal(t, "hello", got[1].Text)
	assert.False(t, got[1].IsUser)
	assert.Equal(t, "3.2", got[3].Text)
}

func TestSend(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat-messages", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "how much?", body["query"])
		assert.Equal(t, "blocking", body["response_mode"])
		assert.Equal(t, "", body["conversation_id"])
		assert.Equal(t, "tester", body["user"])

		w.Write([]byte(`{"task_id":"t","message_id":"m9","conversation_id":"c9","answer":"about 3","created_at":5}`))
	})

	got, err := c.Send(context.Background(), "", "how much?")
	require.NoError(t, err)
	assert.Equal(t, Reply{ConversationID: "c9", MessageID: "m9", Answer: "about 3"}, got)
}

func TestDeleteConversation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/conversations/c1", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "tester", body["user"])

		w.Write([]byte(`{"result":"success"}`))
	})

	assert.NoError(t, c.DeleteConversation(context.Background(), "c1"))
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized"}`, http.StatusUnauthorized)
	})

	_, err := c.Conversations(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "unauthorized")
}

func TestNotConfigured(t *testing.T) {
	c := New("", "", "u", time.Second, nil)
	_, err := c.Send(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
