package report

import (
	"io"
	"strings"

	"json_script_analyzer/internal/domain/models"

	"github.com/nao1215/markdown"
)

// WriteMarkdown renders the same tables as WritePDF in GitHub flavoured Markdown.
func WriteMarkdown(w io.Writer, result *models.AnalysisResult) error {
	tables, err := BuildTables(result)
	if err != nil {
		return err
	}

	md := markdown.NewMarkdown(w)
	md.H1(Title)
	md.PlainText("")

	switch {
	case len(result.Errors) > 0:
		md.Cautionf("%d dangerous issue(s) detected.", len(result.Errors))
	case len(result.Warnings) > 0:
		md.Warningf("%d warning(s) detected.", len(result.Warnings))
	default:
		md.Tip("No dangerous issues or warnings detected.")
	}
	md.PlainText("")

	for _, t := range tables {
		md.H2(t.Title)
		md.PlainText("")

		rows := make([][]string, 0, len(t.Rows))
		for _, row := range t.Rows {
			cells := make([]string, len(t.Header))
			for i, c := range row.Cells {
				cells[i] = escapeCell(c)
			}
			rows = append(rows, cells)
		}
		md.Table(markdown.TableSet{Header: t.Header, Rows: rows})
		md.PlainText("")
	}

	return md.Build()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, `|`, `\|`)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", `<br>`)
}
