package handlers

import (
	"net/http"

	domain "json_script_analyzer/internal/domain/adaptors"
	"json_script_analyzer/internal/http/middleware"
	"json_script_analyzer/internal/http/session"
	"json_script_analyzer/internal/pkg/errors"
	"json_script_analyzer/internal/service"

	log "github.com/sirupsen/logrus"
)

// APIHandler exposes the upload control as JSON for scripts.
type APIHandler struct {
	sessions    *session.Store
	links       service.LinkSet
	maxFileSize int64
	log         *log.Logger
}

type APIStateResponse struct {
	service.ViewState
	View *service.ResultView `json:"view,omitempty"`
}

func NewAPIHandler(sessions *session.Store, links service.LinkSet, maxFileSize int64, log *log.Logger) *APIHandler {
	return &APIHandler{
		sessions:    sessions,
		links:       links,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

func (h *APIHandler) Upload(w http.ResponseWriter, r *http.Request) {
	control := h.sessions.Control(w, r)

	sel, err := readSelection(w, r, h.maxFileSize)
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		control.RejectOversized()
	case err != nil:
		sendError(w, h.log, `failed to read upload form`, err, http.StatusBadRequest)
		return
	default:
		err = selectAndUpload(r.Context(), control, sel)
	}
	if err != nil {
		h.log.WithFields(log.Fields{
			`request_id`: middleware.RequestID(r.Context()),
			`error`:      err.Error(),
		}).Debug(`api upload did not succeed`)
	}

	h.respond(w, control, uploadStatusCode(err))
}

func (h *APIHandler) Result(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.sessions.Control(w, r), http.StatusOK)
}

func (h *APIHandler) respond(w http.ResponseWriter, control *service.UploadControl, code int) {
	state := control.Snapshot()
	sendJSON(w, h.log, APIStateResponse{
		ViewState: state,
		View:      service.BuildResultView(state.Result, h.links),
	}, code)
}

func uploadStatusCode(err error) int {
	var statusErr *domain.StatusError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, service.ErrInvalidFileType), errors.Is(err, service.ErrNoFileSelected):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrUploadInProgress):
		return http.StatusConflict
	case errors.As(err, &statusErr):
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
