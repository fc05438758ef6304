package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    int    `json:"code"`
}

func sendError(w http.ResponseWriter, logger *log.Logger, message string, err error, code int) {
	entry := logger.WithField(`code`, code)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(message)

	response := ErrorResponse{
		Message: message,
		Code:    code,
	}
	if err != nil {
		response.Error = err.Error()
	}
	sendJSON(w, logger, response, code)
}

func sendJSON(w http.ResponseWriter, logger *log.Logger, body any, code int) {
	w.Header().Set(`Content-Type`, `application/json`)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error(`failed to encode response`)
	}
}
