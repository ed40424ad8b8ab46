package parse

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"fabric-cost/http-server/response"
	"fabric-cost/internal/costing"
	"fabric-cost/internal/service/calculation"
)

type ParameterImporter interface {
	ImportParameters(text string, loom costing.LoomParams, m costing.Material) calculation.Imported
}

type Request struct {
	Text     string             `json:"text"`
	Loom     costing.LoomParams `json:"loom"`
	Material costing.Material   `json:"material"`
}

// ParseParameters fills loom and material fields from pasted free text.
func ParseParameters(log *slog.Logger, importer ParameterImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.parameters.ParseParameters"

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			response.BadRequest(w, r, "invalid JSON")
			return
		}

		if strings.TrimSpace(req.Text) == "" {
			response.BadRequest(w, r, "text is empty")
			return
		}

		imported := importer.ImportParameters(req.Text, req.Loom, req.Material)

		log.Debug("parameters imported", slog.String("op", op), slog.Int("recognized", len(imported.Recognized)))

		render.JSON(w, r, imported)
	}
}
