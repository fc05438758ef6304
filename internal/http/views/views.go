package views

import (
	"embed"
	"html/template"
	"io"

	"json_script_analyzer/internal/service"
)

//go:embed templates/*.gohtml
var templateFiles embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFiles, "templates/*.gohtml"))

// Page is the data rendered by the upload page.
type Page struct {
	Status      service.Status
	File        *service.SelectedFile
	Notice      *service.Notice
	View        *service.ResultView
	MaxFileSize string
}

func NewPage(state service.ViewState, view *service.ResultView, maxFileSize string) Page {
	return Page{
		Status:      state.Status,
		File:        state.File,
		Notice:      state.Notice,
		View:        view,
		MaxFileSize: maxFileSize,
	}
}

func RenderPage(w io.Writer, page Page) error {
	return pageTemplate.ExecuteTemplate(w, "index.gohtml", page)
}
