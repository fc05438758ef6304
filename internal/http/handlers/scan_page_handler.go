package handlers

import (
	"bytes"
	"net/http"

	"json_script_analyzer/internal/http/middleware"
	"json_script_analyzer/internal/http/session"
	"json_script_analyzer/internal/http/views"
	"json_script_analyzer/internal/pkg/errors"
	"json_script_analyzer/internal/service"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

// ScanPageHandler serves the upload page and its form submissions.
type ScanPageHandler struct {
	sessions    *session.Store
	links       service.LinkSet
	maxFileSize int64
	log         *log.Logger
}

func NewScanPageHandler(sessions *session.Store, links service.LinkSet, maxFileSize int64, log *log.Logger) *ScanPageHandler {
	return &ScanPageHandler{
		sessions:    sessions,
		links:       links,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

func (h *ScanPageHandler) Index(w http.ResponseWriter, r *http.Request) {
	control := h.sessions.Control(w, r)
	state := control.Snapshot()

	view := service.BuildResultView(state.Result, h.links)
	view.Activate(r.URL.Query().Get(`tab`))

	maxSize := ``
	if h.maxFileSize > 0 {
		maxSize = humanize.Bytes(uint64(h.maxFileSize))
	}

	var buf bytes.Buffer
	if err := views.RenderPage(&buf, views.NewPage(state, view, maxSize)); err != nil {
		h.log.WithError(err).Error(`failed to render page`)
		http.Error(w, `failed to render page`, http.StatusInternalServerError)
		return
	}
	w.Header().Set(`Content-Type`, `text/html; charset=utf-8`)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// Upload applies the submitted form and redirects back to the page, which
// shows the resulting notice and panels.
func (h *ScanPageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	entry := h.log.WithField(`request_id`, middleware.RequestID(r.Context()))
	entry.Debug(`upload form submitted`)
	control := h.sessions.Control(w, r)

	sel, err := readSelection(w, r, h.maxFileSize)
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		control.RejectOversized()
	case err != nil:
		entry.WithError(err).Error(`failed to read upload form`)
		http.Error(w, `failed to read upload form`, http.StatusBadRequest)
		return
	default:
		if err := selectAndUpload(r.Context(), control, sel); err != nil {
			entry.WithError(err).Debug(`upload did not succeed`)
		}
	}

	http.Redirect(w, r, `/`, http.StatusSeeOther)
}
