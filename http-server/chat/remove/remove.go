package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fabric-cost/http-server/response"
)

type ConversationDeleter interface {
	DeleteConversation(ctx context.Context, conversationID string) error
}

func DeleteConversation(log *slog.Logger, deleter ConversationDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chat.DeleteConversation"

		if err := deleter.DeleteConversation(r.Context(), chi.URLParam(r, "id")); err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
