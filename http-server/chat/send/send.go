package send

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"fabric-cost/http-server/response"
	"fabric-cost/internal/chat"
)

type MessageSender interface {
	Send(ctx context.Context, conversationID, query string) (chat.Reply, error)
}

type Request struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}

// SendMessage waits for the complete answer; the client timeout bounds the call.
func SendMessage(log *slog.Logger, sender MessageSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.chat.SendMessage"

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			response.BadRequest(w, r, "invalid JSON")
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			response.BadRequest(w, r, "query is empty")
			return
		}

		reply, err := sender.Send(r.Context(), req.ConversationID, req.Query)
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		render.JSON(w, r, reply)
	}
}
