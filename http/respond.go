package http

import (
	"encoding/json"
	"net/http"

	"github.com/awantoch/familyassign/constants"
	"github.com/awantoch/familyassign/logger"
)

type errorResponse struct {
	Error   string          `json:"error"`
	Detail  string          `json:"detail,omitempty"`
	Message string          `json:"message,omitempty"`
	Env     map[string]bool `json:"env,omitempty"`
}

type messageResponse struct {
	Message any `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("%s: %v", constants.LogFailedEncodeJSON, err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeServerError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:   constants.ResponseServerError,
		Message: msg,
	})
}
