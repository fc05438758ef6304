package adaptors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	domain "json_script_analyzer/internal/domain/adaptors"
	"json_script_analyzer/internal/domain/models"
	"json_script_analyzer/internal/pkg/errors"
	"json_script_analyzer/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const uploadFieldName = `file`

type AnalysisClient struct {
	endpoint string
	client   *http.Client
	log      *log.Logger
}

// NewAnalysisClient creates a client for endpoint. A zero timeout leaves the
// request bounded only by the caller's context.
func NewAnalysisClient(endpoint string, timeout time.Duration, log *log.Logger) *AnalysisClient {
	rTripper := promhttp.InstrumentRoundTripperDuration(
		metrics.HTTPClientRequestDuration,
		promhttp.InstrumentRoundTripperCounter(metrics.HTTPClientRequestsTotal, http.DefaultTransport))

	return &AnalysisClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout:   timeout,
			Transport: rTripper,
		},
		log: log,
	}
}

func (c *AnalysisClient) Upload(ctx context.Context, file *models.FileSelection) (*models.UploadResponse, int, error) {
	if file == nil {
		return nil, 0, errors.New(`no file to upload`)
	}

	body, contentType, err := encodeMultipart(file)
	if err != nil {
		c.log.WithError(err).Error(`failed to encode multipart body`)
		return nil, 0, errors.Wrap(err, `failed to encode multipart body`)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		c.log.WithError(err).Error(`failed to create request`)
		return nil, 0, errors.Wrap(err, `failed to create request`)
	}
	req.Header.Set(`Content-Type`, contentType)
	req.Header.Set(`Accept`, models.JSONContentType)

	logEntry := c.log.WithFields(log.Fields{
		`endpoint`: c.endpoint,
		`file`:     file.Name,
		`size`:     len(file.Content),
	})
	logEntry.Debug(`uploading file to analysis endpoint`)

	resp, err := c.client.Do(req)
	if err != nil {
		logEntry.WithError(err).Error(`analysis request failed`)
		return nil, 0, errors.Wrap(err, `analysis request failed`)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		logEntry.WithField(`status`, resp.StatusCode).Error(`analysis endpoint returned failure status`)
		return nil, resp.StatusCode, &domain.StatusError{Code: resp.StatusCode}
	}

	bodyByte, err := io.ReadAll(resp.Body)
	if err != nil {
		logEntry.Errorf(`failed to read response body. error: %v`, err)
		return nil, resp.StatusCode, errors.Wrap(err, `failed to read response body`)
	}

	var payload models.UploadResponse
	if err := json.Unmarshal(bodyByte, &payload); err != nil {
		logEntry.WithError(err).Error(`failed to decode response body`)
		return nil, resp.StatusCode, errors.Wrap(err, `failed to decode response body`)
	}
	if payload.Analysis == nil {
		logEntry.Error(`response body has no analysis`)
		return nil, resp.StatusCode, errors.New(`response body has no analysis`)
	}

	return &payload, resp.StatusCode, nil
}

func encodeMultipart(file *models.FileSelection) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set(`Content-Disposition`, fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFieldName, file.Name))
	header.Set(`Content-Type`, models.JSONContentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}
