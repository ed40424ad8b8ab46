package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"fabric-cost/http-server/response"
	"fabric-cost/internal/chat"
)

type ConversationProvider interface {
	Conversations(ctx context.Context) ([]chat.Conversation, error)
	Messages(ctx context.Context, conversationID string) ([]chat.Message, error)
}

func GetConversations(log *slog.Logger, provider ConversationProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chat.GetConversations"

		conversations, err := provider.Conversations(r.Context())
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, conversations)
	}
}

func GetMessages(log *slog.Logger, provider ConversationProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chat.GetMessages"

		messages, err := provider.Messages(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, messages)
	}
}
