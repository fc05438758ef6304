package service

import (
	"context"
	"fmt"
	"sync"

	"json_script_analyzer/internal/domain/adaptors"
	"json_script_analyzer/internal/domain/models"
	"json_script_analyzer/internal/pkg/errors"
	"json_script_analyzer/internal/pkg/metrics"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidFileType  = errors.Sentinel(`selected file is not application/json`)
	ErrFileTooLarge     = errors.Sentinel(`selected file exceeds the size limit`)
	ErrNoFileSelected   = errors.Sentinel(`no file selected`)
	ErrUploadInProgress = errors.Sentinel(`an upload is already in progress`)
)

type Status int

const (
	StatusIdle Status = iota
	StatusInFlight
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInFlight:
		return "in_flight"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SelectedFile describes the held file without its content.
type SelectedFile struct {
	Name string `json:"name" yaml:"name"`
	Size int64  `json:"size" yaml:"size"`
}

func (f SelectedFile) HumanSize() string {
	return humanize.Bytes(uint64(f.Size))
}

// ViewState is a consistent snapshot of an UploadControl.
type ViewState struct {
	Status Status                 `json:"status" yaml:"status"`
	File   *SelectedFile          `json:"file,omitempty" yaml:"file,omitempty"`
	Notice *Notice                `json:"notice,omitempty" yaml:"notice,omitempty"`
	Result *models.AnalysisResult `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

// UploadControl holds the selected file and the last AnalysisResult. State
// only changes inside Select and Upload. A second Upload while one is in
// flight is ignored and returns ErrUploadInProgress.
type UploadControl struct {
	client      adaptors.AnalysisClient
	maxFileSize int64
	log         *log.Logger

	mu     sync.Mutex
	file   *models.FileSelection
	result *models.AnalysisResult
	status Status
	notice *Notice
}

// NewUploadControl creates a control uploading through client. maxFileSize <= 0 disables the size check.
func NewUploadControl(client adaptors.AnalysisClient, maxFileSize int64, log *log.Logger) *UploadControl {
	return &UploadControl{
		client:      client,
		maxFileSize: maxFileSize,
		log:         log,
		status:      StatusIdle,
	}
}

// Select replaces the held file. A selection that is not declared as
// application/json, or is too large, clears the held file instead.
func (u *UploadControl) Select(sel *models.FileSelection) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !sel.IsJSON() {
		u.file = nil
		n := noticeInvalidType
		u.notice = &n
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		entry := u.log.WithField(`reason`, `content_type`)
		if sel != nil {
			entry = entry.WithFields(log.Fields{`file`: sel.Name, `content_type`: sel.ContentType})
		}
		entry.Warn(`file selection rejected`)
		return ErrInvalidFileType
	}

	size := sel.Size
	if size < int64(len(sel.Content)) {
		size = int64(len(sel.Content))
	}
	if u.maxFileSize > 0 && size > u.maxFileSize {
		u.file = nil
		u.notice = &Notice{
			Level: NoticeWarning,
			Title: `File Too Large`,
			Text: fmt.Sprintf(`%s is %s; the limit is %s.`,
				sel.Name, humanize.Bytes(uint64(size)), humanize.Bytes(uint64(u.maxFileSize))),
		}
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		u.log.WithFields(log.Fields{`file`: sel.Name, `size`: size, `reason`: `size`}).Warn(`file selection rejected`)
		return ErrFileTooLarge
	}

	held := *sel
	held.Size = size
	u.file = &held
	u.notice = nil
	u.log.WithFields(log.Fields{`file`: sel.Name, `size`: size}).Debug(`file selected`)
	return nil
}

// RejectOversized clears the held file after a selection was refused before
// its content could be read, e.g. when the request body exceeded the limit.
func (u *UploadControl) RejectOversized() {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.file = nil
	u.notice = &Notice{
		Level: NoticeWarning,
		Title: `File Too Large`,
		Text:  fmt.Sprintf(`The selected file exceeds the limit of %s.`, humanize.Bytes(uint64(u.maxFileSize))),
	}
	metrics.UploadsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
	u.log.WithField(`reason`, `size`).Warn(`file selection rejected`)
}

// Upload sends the held file to the analysis endpoint exactly once.
// On any failure the held result is left untouched.
func (u *UploadControl) Upload(ctx context.Context) error {
	u.mu.Lock()
	if u.status == StatusInFlight {
		u.mu.Unlock()
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeBusy).Inc()
		u.log.Debug(`upload ignored: another upload is in flight`)
		return ErrUploadInProgress
	}
	if u.file == nil {
		n := noticeNoFile
		u.notice = &n
		u.mu.Unlock()
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeNoFile).Inc()
		u.log.Warn(`upload triggered without a selected file`)
		return ErrNoFileSelected
	}
	file := u.file
	u.status = StatusInFlight
	n := noticeUploading
	u.notice = &n
	u.mu.Unlock()

	entry := u.log.WithField(`file`, file.Name)
	entry.Info(`upload started`)

	resp, code, err := u.client.Upload(ctx, file)

	u.mu.Lock()
	defer u.mu.Unlock()

	if err != nil {
		u.status = StatusFailed
		var statusErr *adaptors.StatusError
		if errors.As(err, &statusErr) {
			u.notice = &Notice{
				Level: NoticeError,
				Title: `Upload Failed`,
				Text:  fmt.Sprintf(`File upload failed with status: %d`, statusErr.Code),
			}
			metrics.UploadsTotal.WithLabelValues(metrics.OutcomeStatus).Inc()
			entry.WithField(`status`, statusErr.Code).Error(`failed to upload file`)
			return err
		}
		failure := noticeUploadError
		u.notice = &failure
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeTransport).Inc()
		entry.WithError(err).Error(`error uploading file`)
		return errors.Wrap(err, `failed to upload file`)
	}

	if resp == nil || resp.Analysis == nil {
		u.status = StatusFailed
		failure := noticeUploadError
		u.notice = &failure
		metrics.UploadsTotal.WithLabelValues(metrics.OutcomeTransport).Inc()
		entry.Error(`upload response carried no analysis`)
		return errors.New(`upload response carried no analysis`)
	}

	u.result = resp.Analysis.Clone()
	u.status = StatusSucceeded
	success := noticeUploadSuccess
	u.notice = &success
	metrics.UploadsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	entry.WithFields(log.Fields{
		`status`:         code,
		`findings`:       u.result.Total(),
		`errors`:         len(u.result.Errors),
		`warnings`:       len(u.result.Warnings),
		`good_practices`: len(u.result.GoodPractices),
	}).Info(`upload completed`)
	return nil
}

func (u *UploadControl) Status() Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.status
}

// Result returns a copy of the held result, nil before the first successful upload.
func (u *UploadControl) Result() *models.AnalysisResult {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.result.Clone()
}

func (u *UploadControl) File() *SelectedFile {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.selectedFile()
}

func (u *UploadControl) Notice() *Notice {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.copyNotice()
}

func (u *UploadControl) Snapshot() ViewState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return ViewState{
		Status: u.status,
		File:   u.selectedFile(),
		Notice: u.copyNotice(),
		Result: u.result.Clone(),
	}
}

func (u *UploadControl) selectedFile() *SelectedFile {
	if u.file == nil {
		return nil
	}
	return &SelectedFile{Name: u.file.Name, Size: u.file.Size}
}

func (u *UploadControl) copyNotice() *Notice {
	if u.notice == nil {
		return nil
	}
	n := *u.notice
	return &n
}
