package report

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"json_script_analyzer/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Errors:        []string{"e1"},
		Warnings:      []string{},
		GoodPractices: []string{"g1", "g2"},
	}
}

func TestBuildTables(t *testing.T) {
	tables, err := BuildTables(sampleResult())
	require.NoError(t, err)
	require.Len(t, tables, 3)

	danger, warning, good := tables[0], tables[1], tables[2]

	assert.Equal(t, "Danger", danger.Title)
	assert.Equal(t, []Row{{Cells: []string{"Danger #1", "e1"}}}, danger.Rows)
	assert.Equal(t, Color{220, 53, 69}, danger.HeaderFill)
	assert.Equal(t, Color{255, 255, 255}, danger.HeaderText)

	assert.Equal(t, "Warning", warning.Title)
	assert.Equal(t, []Row{{Cells: []string{"Warning - No issues detected.", ""}}}, warning.Rows)
	assert.Equal(t, Color{255, 193, 7}, warning.HeaderFill)
	assert.Equal(t, Color{0, 0, 0}, warning.HeaderText)

	assert.Equal(t, "Good Practice", good.Title)
	assert.Equal(t, []Row{
		{Cells: []string{"Good Practice #1", "g1"}},
		{Cells: []string{"Good Practice #2", "g2"}},
	}, good.Rows)
	assert.Equal(t, Color{40, 167, 69}, good.HeaderFill)

	for _, tbl := range tables {
		assert.Equal(t, []string{"Type", "Description"}, tbl.Header)
	}
}

func TestBuildTablesNilResult(t *testing.T) {
	_, err := BuildTables(nil)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleResult(), PDFOptions{DisableCompression: true}))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "(JSON Script Analysis Report)")
	assert.Contains(t, string(out), "(Danger #1)")
	assert.Contains(t, string(out), "(Warning - No issues detected.)")
	assert.Contains(t, string(out), "(Good Practice #2)")
}

func TestWritePDFPaginatesLongResults(t *testing.T) {
	long := &models.AnalysisResult{Errors: []string{}, Warnings: []string{}, GoodPractices: []string{}}
	for i := 0; i < 120; i++ {
		long.Warnings = append(long.Warnings, "a fairly long warning describing a key that is duplicated in the document and should be renamed")
	}

	var short, paged bytes.Buffer
	require.NoError(t, WritePDF(&short, sampleResult(), PDFOptions{DisableCompression: true}))
	require.NoError(t, WritePDF(&paged, long, PDFOptions{DisableCompression: true}))

	pageMarker := []byte("/Type /Page")
	assert.Greater(t, bytes.Count(paged.Bytes(), pageMarker), bytes.Count(short.Bytes(), pageMarker))
}

var textPosition = regexp.MustCompile(`BT (-?[0-9.]+) (-?[0-9.]+) Td`)

func TestWritePDFSplitsRowsTallerThanAPage(t *testing.T) {
	finding := strings.Repeat("duplicate key detected in nested object path. ", 200)
	res := &models.AnalysisResult{Errors: []string{finding}, Warnings: []string{}, GoodPractices: []string{}}

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, res, PDFOptions{DisableCompression: true}))
	out := buf.String()

	// positions are in points from the bottom edge of the page
	bottomMargin := pdfMargin * 72 / 25.4
	matches := textPosition.FindAllStringSubmatch(out, -1)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		y, err := strconv.ParseFloat(m[2], 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, y, bottomMargin, "text drawn inside the bottom margin: %s", m[0])
	}

	assert.Greater(t, strings.Count(out, "/Type /Page\n"), 1, "the row continues on a second page")
	assert.GreaterOrEqual(t, strings.Count(out, "(Type) Tj"), 2, "the header is repeated on the continuation page")
	assert.Equal(t, 1, strings.Count(out, "(Danger #1) Tj"))
}

func TestWritePDFNilResult(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WritePDF(&buf, nil, PDFOptions{}), ErrNoResult)
	assert.Zero(t, buf.Len())
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	res := sampleResult()
	res.Errors = []string{"pipe | in\ntext"}
	require.NoError(t, WriteMarkdown(&buf, res))

	out := buf.String()
	assert.Contains(t, out, "# JSON Script Analysis Report")
	assert.Contains(t, out, "## Danger")
	assert.Contains(t, out, `pipe \| in<br>text`)
	assert.Contains(t, out, "Warning - No issues detected.")
	assert.Contains(t, out, "Good Practice #2")
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"pdf":                     FormatPDF,
		"PDF":                     FormatPDF,
		"out/report.pdf":          FormatPDF,
		"md":                      FormatMarkdown,
		"markdown":                FormatMarkdown,
		"JSON_Script_Analysis.md": FormatMarkdown,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("report.docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatFileName(t *testing.T) {
	assert.Equal(t, "JSON_Script_Analysis_Report.pdf", FormatPDF.FileName())
	assert.Equal(t, "JSON_Script_Analysis_Report.md", FormatMarkdown.FileName())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, Format("docx"), sampleResult()), ErrUnknownFormat)
}
