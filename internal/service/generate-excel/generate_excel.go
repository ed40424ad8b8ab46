package generate_excel

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fabric-cost/internal/metrics"
	"fabric-cost/internal/storage"
)

const (
	historySheet   = "History"
	materialsSheet = "Materials"
	timeLayout     = "2006-01-02 15:04"
)

type HistoryLister interface {
	List(ctx context.Context, filter storage.HistoryFilter) ([]*storage.Calculation, error)
}

type GenerateExcelService struct {
	history HistoryLister
	metrics *metrics.Metrics
}

func NewGenerateService(history HistoryLister, m *metrics.Metrics) *GenerateExcelService {
	return &GenerateExcelService{history: history, metrics: m}
}

func (g *GenerateExcelService) GenerateExcel(ctx context.Context, filter storage.HistoryFilter) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	records, err := g.history.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", historySheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.NewSheet(materialsSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}

	historyHeaders := []string{
		"Date", "Customer", "Materials", "Warp weight, g/m", "Weft weight, g/m",
		"Warp cost", "Weft cost", "Warping cost", "Labor cost", "Total cost", "Daily product, m",
	}
	materialHeaders := []string{
		"Date", "Customer", "Material", "Warp ratio", "Weft ratio",
		"Warp weight, g/m", "Weft weight, g/m", "Warp cost", "Weft cost",
	}

	for _, sh := range []struct {
		name    string
		headers []string
	}{{historySheet, historyHeaders}, {materialsSheet, materialHeaders}} {
		for i, name := range sh.headers {
			f.SetCellValue(sh.name, cellName(i+1, 1), name)
		}
		f.SetCellStyle(sh.name, "A1", cellName(len(sh.headers), 1), headerStyle)
		f.SetPanes(sh.name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}

	materialRow := 2
	for i, c := range records {
		row := i + 2
		date := c.CreatedAt.Local().Format(timeLayout)
		r := c.Results

		values := []any{
			date,
			c.CustomerName,
			len(c.Materials),
			round(r.WarpWeight, 2),
			round(r.WeftWeight, 2),
			round(r.WarpCost, 2),
			round(r.WeftCost, 2),
			round(r.WarpingCost, 2),
			round(r.LaborCost, 2),
			round(r.TotalCost, 2),
			round(r.DailyProduct, 2),
		}
		for col, v := range values {
			f.SetCellValue(historySheet, cellName(col+1, row), v)
		}

		for _, mr := range r.Materials {
			values := []any{
				date,
				c.CustomerName,
				mr.Material.Name,
				ratio(mr.Material.WarpRatio),
				ratio(mr.Material.WeftRatio),
				round(mr.WarpWeight, 2),
				round(mr.WeftWeight, 2),
				round(mr.WarpCost, 2),
				round(mr.WeftCost, 2),
			}
			for col, v := range values {
				f.SetCellValue(materialsSheet, cellName(col+1, materialRow), v)
			}
			materialRow++
		}
	}

	f.SetColWidth(historySheet, "A", "B", 20)
	f.SetColWidth(historySheet, "C", "K", 15)
	f.SetColWidth(materialsSheet, "A", "C", 20)
	f.SetColWidth(materialsSheet, "D", "I", 15)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: write: %w", op, err)
	}

	g.metrics.ReportGenerated("xlsx")

	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// round uses decimal arithmetic so that 2.675 prints as 2.68.
func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func ratio(r *string) string {
	if r == nil {
		return ""
	}
	return *r
}
