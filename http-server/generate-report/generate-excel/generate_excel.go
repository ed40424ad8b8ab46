package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fabric-cost/http-server/calculations/get"
	"fabric-cost/http-server/response"
	"fabric-cost/internal/storage"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, filter storage.HistoryFilter) ([]byte, error)
}

// GenerateReportExcel exports the history selected by the same query
// parameters as the history list.
func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportExcel"

		filter, err := get.ParseHistoryFilter(r)
		if err != nil {
			response.BadRequest(w, r, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, filter)
		if err != nil {
			response.Fail(w, r, log, op, err)
			return
		}

		fileName := fmt.Sprintf("Fabric_Cost_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
