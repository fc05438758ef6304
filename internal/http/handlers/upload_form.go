package handlers

import (
	"context"
	"io"
	"net/http"

	"json_script_analyzer/internal/domain/models"
	"json_script_analyzer/internal/pkg/errors"
	"json_script_analyzer/internal/service"
)

const (
	uploadField     = `file`
	multipartMemory = 32 << 20
	formOverhead    = 1 << 20
)

// readSelection extracts the file part of an upload form. It returns nil
// without error when the form carries no file, which keeps the held selection.
func readSelection(w http.ResponseWriter, r *http.Request, maxFileSize int64) (*models.FileSelection, error) {
	if maxFileSize > 0 {
		if r.ContentLength > maxFileSize+formOverhead {
			return nil, service.ErrFileTooLarge
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+formOverhead)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, service.ErrFileTooLarge
		}
		return nil, errors.Wrap(err, `failed to parse upload form`)
	}

	file, header, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, `failed to read uploaded file`)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, `failed to read uploaded file`)
	}

	return &models.FileSelection{
		Name:        header.Filename,
		ContentType: header.Header.Get(`Content-Type`),
		Size:        header.Size,
		Content:     content,
	}, nil
}

// selectAndUpload applies a form submission to control: a new selection (if
// any) followed by one upload trigger. A rejected selection stops before the
// upload. The upload outlives the request so it completes exactly once even
// when the browser goes away.
func selectAndUpload(ctx context.Context, control *service.UploadControl, sel *models.FileSelection) error {
	if sel != nil {
		if err := control.Select(sel); err != nil {
			return err
		}
	}
	return control.Upload(context.WithoutCancel(ctx))
}
