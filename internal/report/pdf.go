package report

import (
	"io"
	"strings"

	"json_script_analyzer/internal/domain/models"
	"json_script_analyzer/internal/pkg/errors"

	"github.com/go-pdf/fpdf"
)

const (
	pdfTitleY      = 20.0
	pdfFirstTableY = 30.0
	pdfTableGap    = 10.0
	pdfMargin      = 14.0
	pdfFontSize    = 10.0
	pdfLineHeight  = 5.0
	pdfCellPadding = 1.8
	pdfTypeColumn  = 42.0
)

var gridLine = Color{200, 200, 200}

// PDFOptions tweak the generated document. The zero value is what the UI serves.
type PDFOptions struct {
	// Compress the content streams. Disabled in tests so text can be inspected.
	DisableCompression bool
}

// WritePDF renders result as an A4 report with one table per category.
func WritePDF(w io.Writer, result *models.AnalysisResult, opts PDFOptions) error {
	tables, err := BuildTables(result)
	if err != nil {
		return err
	}

	pdf := fpdf.New(`P`, `mm`, `A4`, ``)
	pdf.SetCompression(!opts.DisableCompression)
	pdf.SetTitle(Title, true)
	pdf.SetCreator(`json_script_analyzer`, true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	// page breaks are handled per row so headers can be repeated
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	r := &pdfRenderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(``)}
	r.title()

	y := pdfFirstTableY
	for i, t := range tables {
		if i > 0 {
			y += pdfTableGap
		}
		y = r.table(t, y)
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, `failed to generate pdf`)
	}
	return nil
}

type pdfRenderer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (r *pdfRenderer) title() {
	pageWidth, _ := r.pdf.GetPageSize()
	r.pdf.SetFont(`Helvetica`, `B`, 16)
	r.pdf.SetTextColor(0, 0, 0)
	text := r.tr(Title)
	r.pdf.Text((pageWidth-r.pdf.GetStringWidth(text))/2, pdfTitleY, text)
}

// table draws t starting at y and returns the y below its last row. Rows
// taller than the space left are continued on the next page below a repeated header.
func (r *pdfRenderer) table(t Table, y float64) float64 {
	left, _, right, _ := r.pdf.GetMargins()
	pageWidth, _ := r.pdf.GetPageSize()
	width := pageWidth - left - right
	widths := []float64{pdfTypeColumn, width - pdfTypeColumn}

	// keep the header together with at least one line of the first row
	y = r.ensureRoom(y, r.headerHeight()+pdfLineHeight+2*pdfCellPadding)
	y = r.header(t, y, widths)

	for _, row := range t.Rows {
		cells := r.cellLines(row.Cells, widths)
		n := lineCount(cells)

		// move a row that would fit on a fresh page instead of splitting it
		h := float64(n)*pdfLineHeight + 2*pdfCellPadding
		if y+h > r.bottom() && r.top()+r.headerHeight()+h <= r.bottom() {
			y = r.continueOnNewPage(t, widths)
		}

		for start := 0; start < n; {
			fit := int((r.bottom() - y - 2*pdfCellPadding) / pdfLineHeight)
			if fit < 1 {
				y = r.continueOnNewPage(t, widths)
				continue
			}
			end := min(start+fit, n)
			h := float64(end-start)*pdfLineHeight + 2*pdfCellPadding
			r.row(sliceLines(cells, start, end), y, widths, h, false)
			y += h
			start = end
		}
	}
	return y
}

func (r *pdfRenderer) continueOnNewPage(t Table, widths []float64) float64 {
	r.pdf.AddPage()
	return r.header(t, r.top(), widths)
}

func (r *pdfRenderer) headerHeight() float64 {
	return pdfLineHeight + 2*pdfCellPadding
}

// header draws the header row and leaves the body font selected.
func (r *pdfRenderer) header(t Table, y float64, widths []float64) float64 {
	r.pdf.SetFont(`Helvetica`, `B`, pdfFontSize)
	r.pdf.SetFillColor(t.HeaderFill.R, t.HeaderFill.G, t.HeaderFill.B)
	r.pdf.SetTextColor(t.HeaderText.R, t.HeaderText.G, t.HeaderText.B)
	h := r.headerHeight()
	r.row(r.cellLines(t.Header, widths), y, widths, h, true)

	r.pdf.SetFont(`Helvetica`, ``, pdfFontSize)
	r.pdf.SetTextColor(33, 37, 41)
	return y + h
}

func (r *pdfRenderer) row(cells [][]string, y float64, widths []float64, h float64, fill bool) {
	left, _, _, _ := r.pdf.GetMargins()
	style := `D`
	if fill {
		style = `FD`
	}
	r.pdf.SetDrawColor(gridLine.R, gridLine.G, gridLine.B)

	x := left
	for i, w := range widths {
		r.pdf.Rect(x, y, w, h, style)
		if i < len(cells) {
			for j, line := range cells[i] {
				r.pdf.SetXY(x+pdfCellPadding, y+pdfCellPadding+float64(j)*pdfLineHeight)
				r.pdf.CellFormat(w-2*pdfCellPadding, pdfLineHeight, line, ``, 0, `L`, false, 0, ``)
			}
		}
		x += w
	}
}

// cellLines wraps every cell to its column width.
func (r *pdfRenderer) cellLines(cells []string, widths []float64) [][]string {
	out := make([][]string, len(cells))
	for i, cell := range cells {
		if i < len(widths) {
			out[i] = r.lines(cell, widths[i])
		}
	}
	return out
}

func (r *pdfRenderer) lines(text string, w float64) []string {
	var out []string
	for _, paragraph := range strings.Split(r.tr(text), "\n") {
		split := r.pdf.SplitLines([]byte(paragraph), w-2*pdfCellPadding)
		if len(split) == 0 {
			out = append(out, ``)
			continue
		}
		for _, l := range split {
			out = append(out, string(l))
		}
	}
	return out
}

// ensureRoom starts a new page when h does not fit below y.
func (r *pdfRenderer) ensureRoom(y, h float64) float64 {
	if y+h <= r.bottom() {
		return y
	}
	r.pdf.AddPage()
	return r.top()
}

func (r *pdfRenderer) top() float64 {
	_, top, _, _ := r.pdf.GetMargins()
	return top
}

// bottom is the lowest y a row may reach.
func (r *pdfRenderer) bottom() float64 {
	_, pageHeight := r.pdf.GetPageSize()
	_, _, _, bottom := r.pdf.GetMargins()
	return pageHeight - bottom
}

func lineCount(cells [][]string) int {
	n := 1
	for _, c := range cells {
		n = max(n, len(c))
	}
	return n
}

// sliceLines returns lines [start, end) of every cell; shorter cells yield fewer lines.
func sliceLines(cells [][]string, start, end int) [][]string {
	out := make([][]string, len(cells))
	for i, c := range cells {
		if start < len(c) {
			out[i] = c[start:min(end, len(c))]
		}
	}
	return out
}
