package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"json_script_analyzer/internal/http/session"
	"json_script_analyzer/internal/report"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type ExportHandler struct {
	sessions *session.Store
	log      *log.Logger
}

func NewExportHandler(sessions *session.Store, log *log.Logger) *ExportHandler {
	return &ExportHandler{
		sessions: sessions,
		log:      log,
	}
}

// Handle streams the session's result as a report download.
func (h *ExportHandler) Handle(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(chi.URLParam(r, `format`))
	if err != nil {
		sendError(w, h.log, `unsupported report format`, err, http.StatusNotFound)
		return
	}

	result := h.sessions.Control(w, r).Result()
	if result == nil {
		sendError(w, h.log, `nothing to export`, report.ErrNoResult, http.StatusConflict)
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, format, result); err != nil {
		sendError(w, h.log, `failed to generate report`, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set(`Content-Type`, format.ContentType())
	w.Header().Set(`Content-Disposition`, fmt.Sprintf(`attachment; filename=%q`, format.FileName()))
	w.Header().Set(`Content-Length`, fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
