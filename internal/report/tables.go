package report

import (
	"fmt"

	"json_script_analyzer/internal/domain/models"
	"json_script_analyzer/internal/pkg/errors"
)

const Title = `JSON Script Analysis Report`

var ErrNoResult = errors.Sentinel(`no analysis result to export`)

type Color struct {
	R, G, B int
}

// Row is a table row with one cell per header column.
type Row struct {
	Cells []string
}

type Table struct {
	Category   models.Category
	Title      string
	Header     []string
	Rows       []Row
	HeaderFill Color
	HeaderText Color
}

var headerStyles = map[models.Category][2]Color{
	models.CategoryDanger:       {{220, 53, 69}, {255, 255, 255}},
	models.CategoryWarning:      {{255, 193, 7}, {0, 0, 0}},
	models.CategoryGoodPractice: {{40, 167, 69}, {255, 255, 255}},
}

// BuildTables lays result out as one table per category, in display order.
func BuildTables(result *models.AnalysisResult) ([]Table, error) {
	if result == nil {
		return nil, ErrNoResult
	}

	tables := make([]Table, 0, 3)
	for _, c := range models.Categories() {
		style := headerStyles[c]
		t := Table{
			Category:   c,
			Title:      c.Label(),
			Header:     []string{`Type`, `Description`},
			HeaderFill: style[0],
			HeaderText: style[1],
		}

		items := c.Items(result)
		if len(items) == 0 {
			t.Rows = []Row{{Cells: []string{fmt.Sprintf(`%s - No issues detected.`, c.Label()), ``}}}
		}
		for i, item := range items {
			t.Rows = append(t.Rows, Row{Cells: []string{fmt.Sprintf(`%s #%d`, c.Label(), i+1), item}})
		}
		tables = append(tables, t)
	}
	return tables, nil
}
