// Package action renders the tagged JSON result envelope shared by the
// admin dashboard actions and the proxy API.
package action

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "github.com/louisbranch/atelier.studio/internal/platform/errors"
)

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

type failureEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// WriteOK writes a success envelope with an optional data payload.
func WriteOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, successEnvelope{Success: true, Data: data})
}

// WriteError writes a failure envelope. The coarse result code and HTTP
// status come from the structured error; unexpected database errors are
// logged and reported with a generic message so internals never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err).ResultCode()
	message := err.Error()
	if code == apperrors.CodeDatabase {
		log.Printf("action failed: %v", err)
		message = "an internal error occurred"
	}
	writeJSON(w, apperrors.HTTPStatusOf(err), failureEnvelope{
		Success: false,
		Error:   message,
		Code:    string(code),
	})
}

// WriteFailure writes a failure envelope for a known code without logging.
func WriteFailure(w http.ResponseWriter, code apperrors.Code, message string) {
	writeJSON(w, code.HTTPStatus(), failureEnvelope{
		Success: false,
		Error:   message,
		Code:    string(code.ResultCode()),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
