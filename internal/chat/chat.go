// Package chat talks to the assistant service used for costing questions.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fabric-cost/internal/metrics"
)

const (
	conversationsLimit = 20
	messagesLimit      = 50
)

var ErrNotConfigured = errors.New("chat: assistant is not configured")

// APIError is a non-2xx answer from the assistant service.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat: unexpected status %d: %s", e.StatusCode, e.Body)
}

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type Message struct {
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	CreatedAt time.Time `json:"created_at"`
}

type Reply struct {
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	Answer         string `json:"answer"`
}

type Client struct {
	baseURL string
	apiKey  string
	user    string
	http    *http.Client
	metrics *metrics.Metrics
}

func New(baseURL, apiKey, user string, timeout time.Duration, m *metrics.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		user:    user,
		http:    &http.Client{Timeout: timeout},
		metrics: m,
	}
}

func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	const op = "chat.Conversations"

	q := url.Values{}
	q.Set("user", c.user)
	q.Set("limit", strconv.Itoa(conversationsLimit))

	var resp struct {
		Data []struct {
			ID        string  `json:"id"`
			Name      string  `json:"name"`
			CreatedAt float64 `json:"created_at"`
		} `json:"data"`
	}
	err := c.do(ctx, http.MethodGet, "/conversations?"+q.Encode(), nil, &resp)
	c.metrics.ChatRequest("conversations", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]Conversation, 0, len(resp.Data))
	for _, d := range resp.Data {
		out = append(out, Conversation{ID: d.ID, Title: d.Name, CreatedAt: unix(d.CreatedAt)})
	}
	return out, nil
}

// Messages returns the conversation as alternating user and assistant
// messages in the order the service lists them.
func (c *Client) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	const op = "chat.Messages"

	q := url.Values{}
	q.Set("user", c.user)
	q.Set("conversation_id", conversationID)
	q.Set("limit", strconv.Itoa(messagesLimit))

	var resp struct {
		Data []struct {
			Query     string  `json:"query"`
			Answer    string  `json:"answer"`
			CreatedAt float64 `json:"created_at"`
		} `json:"data"`
	}
	err := c.do(ctx, http.MethodGet, "/messages?"+q.Encode(), nil, &resp)
	c.metrics.ChatRequest("messages", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]Message, 0, 2*len(resp.Data))
	for _, d := range resp.Data {
		at := unix(d.CreatedAt)
		out = append(out,
			Message{Text: d.Query, IsUser: true, CreatedAt: at},
			Message{Text: d.Answer, IsUser: false, CreatedAt: at},
		)
	}
	return out, nil
}

// Send posts a question and waits for the whole answer. An empty
// conversationID starts a new conversation.
func (c *Client) Send(ctx context.Context, conversationID, query string) (Reply, error) {
	const op = "chat.Send"

	body := map[string]any{
		"query":           query,
		"inputs":          map[string]string{},
		"response_mode":   "blocking",
		"conversation_id": conversationID,
		"user":            c.user,
	}

	var reply Reply
	err := c.do(ctx, http.MethodPost, "/chat-messages", body, &reply)
	c.metrics.ChatRequest("send", err)
	if err != nil {
		return Reply{}, fmt.Errorf("%s: %w", op, err)
	}
	return reply, nil
}

func (c *Client) DeleteConversation(ctx context.Context, conversationID string) error {
	const op = "chat.DeleteConversation"

	var resp struct {
		Result string `json:"result"`
	}
	err := c.do(ctx, http.MethodDelete, "/conversations/"+url.PathEscape(conversationID), map[string]string{"user": c.user}, &resp)
	c.metrics.ChatRequest("delete", err)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.baseURL == "" || c.apiKey == "" {
		return ErrNotConfigured
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func unix(sec float64) time.Time {
	return time.Unix(int64(sec), 0).UTC()
}
