package generate_pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"fabric-cost/internal/costing"
	"fabric-cost/internal/metrics"
	"fabric-cost/internal/storage"
)

const (
	marginLeft  = 15.0
	marginRight = 15.0
	pageWidth   = 210.0
	contentW    = pageWidth - marginLeft - marginRight
	qrSize      = 32.0
	rowH        = 6.0
)

type CalculationGetter interface {
	Get(ctx context.Context, id string) (*storage.Calculation, error)
}

type GeneratePDFService struct {
	calculations CalculationGetter
	metrics      *metrics.Metrics
}

func NewGenerateService(calculations CalculationGetter, m *metrics.Metrics) *GeneratePDFService {
	return &GeneratePDFService{calculations: calculations, metrics: m}
}

// qrPayload is what the code on the sheet carries.
type qrPayload struct {
	ID        string `json:"id"`
	Customer  string `json:"customer,omitempty"`
	TotalCost string `json:"total_cost"`
}

// GeneratePDF renders the cost sheet of one saved calculation.
func (g *GeneratePDFService) GeneratePDF(ctx context.Context, id string) ([]byte, error) {
	const op = "service.generate_pdf.GeneratePDF"

	c, err := g.calculations.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := Render(c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	g.metrics.ReportGenerated("pdf")

	return data, nil
}

// Render lays out a single A4 page. Core fonts only cover cp1252, other
// characters are replaced.
func Render(c *storage.Calculation) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, 15, marginRight)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	qrPNG, err := qrCode(c)
	if err != nil {
		return nil, err
	}
	pdf.RegisterImageOptionsReader("qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", pageWidth-marginRight-qrSize, 12, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW-qrSize, 9, "Fabric cost sheet", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW-qrSize, 5, tr("Customer: "+orDash(c.CustomerName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW-qrSize, 5, "Date: "+c.CreatedAt.Local().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW-qrSize, 5, "ID: "+c.ID, "", 1, "L", false, 0, "")
	pdf.SetY(12 + qrSize + 4)

	section(pdf, "Loom parameters")
	l := c.Loom
	pairs := [][2]string{
		{"Box number", l.BoxNumber},
		{"Threading", l.Threading},
		{"Fabric width, cm", l.FabricWidth},
		{"Edge finishing, cm", l.EdgeFinishing},
		{"Fabric shrinkage", l.FabricShrinkage},
		{"Weft density, picks/cm", l.WeftDensity},
		{"Machine speed, rpm", l.MachineSpeed},
		{"Efficiency, %", l.Efficiency},
		{"Daily labor cost", l.DailyLaborCost},
		{"Warping cost", l.FixedCost},
	}
	if c.DirectWarp.Enabled {
		pairs = append(pairs, [2]string{"Direct warp weight, g/m", c.DirectWarp.Value})
	}
	if c.DirectWeft.Enabled {
		pairs = append(pairs, [2]string{"Direct weft weight, g/m", c.DirectWeft.Value})
	}
	keyValues(pdf, tr, pairs)

	section(pdf, "Constants")
	cs := c.Constants
	keyValues(pdf, tr, [][2]string{
		{"Warp divider", num(cs.WarpDivider, 0)},
		{"Weft divider", num(cs.WeftDivider, 0)},
		{"Minutes per day", num(cs.MinutesPerDay, 0)},
		{"Default D value", num(cs.DefaultDValue, 0)},
	})

	section(pdf, "Materials")
	materialTable(pdf, tr, c.Results.Materials)

	section(pdf, "Totals")
	r := c.Results
	keyValues(pdf, tr, [][2]string{
		{"Warp weight, g/m", num(r.WarpWeight, 2)},
		{"Weft weight, g/m", num(r.WeftWeight, 2)},
		{"Warp cost", num(r.WarpCost, 2)},
		{"Weft cost", num(r.WeftCost, 2)},
		{"Warping cost", num(r.WarpingCost, 2)},
		{"Labor cost", num(r.LaborCost, 2)},
		{"Daily product, m", num(r.DailyProduct, 2)},
	})

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW/2, 8, "Total cost per meter", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 8, num(r.TotalCost, 2), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func qrCode(c *storage.Calculation) ([]byte, error) {
	payload, err := json.Marshal(qrPayload{
		ID:        c.ID,
		Customer:  c.CustomerName,
		TotalCost: num(c.Results.TotalCost, 2),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal qr payload: %w", err)
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(224, 224, 224)
	pdf.CellFormat(contentW, 7, title, "", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
}

func keyValues(pdf *fpdf.Fpdf, tr func(string) string, pairs [][2]string) {
	half := contentW / 2
	for i, p := range pairs {
		ln := 0
		if i%2 == 1 || i == len(pairs)-1 {
			ln = 1
		}
		pdf.CellFormat(half*0.6, rowH, tr(p[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(half*0.4, rowH, tr(orDash(p[1])), "", ln, "R", false, 0, "")
	}
}

func materialTable(pdf *fpdf.Fpdf, tr func(string) string, rows []costing.MaterialResult) {
	headers := []string{"Material", "Warp yarn", "Weft yarn", "Ratio w/f", "Warp g/m", "Weft g/m", "Warp cost", "Weft cost"}
	widths := []float64{30, 22, 22, 20, 20, 20, 22, 24}

	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range headers {
		pdf.CellFormat(widths[i], rowH, h, "B", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, mr := range rows {
		m := mr.Material
		cells := []string{
			tr(m.Name),
			yarn(m.WarpYarnValue, m.WarpYarnType),
			yarn(m.WeftYarnValue, m.WeftYarnType),
			orDash(deref(m.WarpRatio)) + "/" + orDash(deref(m.WeftRatio)),
			num(mr.WarpWeight, 2),
			num(mr.WeftWeight, 2),
			num(mr.WarpCost, 3),
			num(mr.WeftCost, 3),
		}
		for i, v := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], rowH, v, "", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func yarn(value string, t costing.YarnType) string {
	if value == "" {
		return "-"
	}
	if t == costing.YarnTypeYarnCount {
		return value + "s"
	}
	return value + "D"
}

func num(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
