package report

import (
	"io"
	"path/filepath"
	"strings"

	"json_script_analyzer/internal/domain/models"
	"json_script_analyzer/internal/pkg/errors"
	"json_script_analyzer/internal/pkg/metrics"
)

type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "md"

	baseFileName = `JSON_Script_Analysis_Report`
)

var ErrUnknownFormat = errors.Sentinel(`unknown report format`)

// FileName is the fixed download name for f.
func (f Format) FileName() string {
	return baseFileName + "." + string(f)
}

func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return `application/pdf`
	case FormatMarkdown:
		return `text/markdown; charset=utf-8`
	default:
		return `application/octet-stream`
	}
}

// ParseFormat accepts a format name or a file name whose extension names one.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if ext := filepath.Ext(s); ext != "" {
		s = strings.TrimPrefix(ext, ".")
	}
	switch s {
	case "pdf":
		return FormatPDF, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", ErrUnknownFormat
	}
}

// Write renders result in format f and counts the export.
func Write(w io.Writer, f Format, result *models.AnalysisResult) error {
	var err error
	switch f {
	case FormatPDF:
		err = WritePDF(w, result, PDFOptions{})
	case FormatMarkdown:
		err = WriteMarkdown(w, result)
	default:
		return ErrUnknownFormat
	}
	if err != nil {
		return err
	}
	metrics.ReportsExportedTotal.WithLabelValues(string(f)).Inc()
	return nil
}
