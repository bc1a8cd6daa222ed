// Package report собирает PDF-отчет: график и таблицу агрегатов по категориям.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/wcharczuk/go-chart/v2/roboto"

	"satchart/internal/model"
	"satchart/pkg/localization"
)

const fontFamily = "roboto"

// Input - данные одного отчета
type Input struct {
	Run       *model.Run
	Stats     []model.CategoryStat
	Precision int
	PNG       []byte
	Locale    *localization.Locale
}

// Build возвращает PDF (A4, книжная) с графиком, таблицей и подвалом с id запуска
func Build(in Input) ([]byte, error) {
	if in.Run == nil || in.Locale == nil {
		return nil, errors.New("report needs run and locale")
	}
	if len(in.PNG) == 0 {
		return nil, errors.New("report needs a chart image")
	}
	tr := in.Locale.Translate

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(in.Run.StartedAt)
	pdf.SetTitle(tr("report.title"), true)
	pdf.SetCreator("satchart", true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", roboto.Roboto)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", roboto.Roboto)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	contentW := pageW - left - right

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(contentW, 10, tr("report.title"), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("%s: %s   %s: %d",
		tr("report.variant"), in.Run.Variant, tr("report.seed"), in.Run.Seed), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	imgName := "chart-" + in.Run.ID
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(in.PNG))
	side := contentW * 0.75
	pdf.ImageOptions(imgName, left+(contentW-side)/2, pdf.GetY(), side, side, true, opts, 0, "")
	pdf.Ln(4)

	cols := []struct {
		title string
		width float64
		align string
	}{
		{tr("report.category"), contentW * 0.4, "L"},
		{tr("report.mean"), contentW * 0.2, "R"},
		{tr("report.sd"), contentW * 0.2, "R"},
		{tr("report.count"), contentW * 0.2, "R"},
	}
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(230, 236, 242)
	for _, c := range cols {
		pdf.CellFormat(c.width, 7, c.title, "B", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 10)
	for _, s := range in.Stats {
		row := []string{
			s.Category,
			strconv.FormatFloat(s.Mean, 'f', in.Precision, 64),
			strconv.FormatFloat(s.StdDev, 'f', in.Precision, 64),
			strconv.Itoa(s.Count),
		}
		for i, c := range cols {
			pdf.CellFormat(c.width, 6, row[i], "", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont(fontFamily, "", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%s: %s   %s: %s",
		tr("report.run"), in.Run.ID,
		tr("report.generated"), in.Run.StartedAt.UTC().Format("2006-01-02 15:04:05 UTC")),
		"", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
