package adaptors

import (
	"context"
	"fmt"

	"json_script_analyzer/internal/domain/models"
)

// AnalysisClient uploads a selected file to the analysis endpoint.
// It returns the decoded response and the HTTP status code; a non-2xx status is
// reported as a *StatusError.
type AnalysisClient interface {
	Upload(ctx context.Context, file *models.FileSelection) (*models.UploadResponse, int, error)
}

// StatusError is returned when the endpoint answers with a non-success status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("analysis endpoint responded with status %d", e.Code)
}
