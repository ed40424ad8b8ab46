package generate_pdf

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fabric-cost/http-server/response"
)

type GeneratePDFHandler interface {
	GeneratePDF(ctx context.Context, id string) ([]byte, error)
}

func GenerateReportPDF(log *slog.Logger, gen GeneratePDFHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportPDF"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		pdfBytes, err := gen.GeneratePDF(ctx, id)
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename=cost_sheet_"+id+".pdf")
		w.Write(pdfBytes)
	}
}
