package respond

import (
	"encoding/json"
	"net/http"
)

// Códigos cerrados del envelope de error. El cliente decide comportamiento
// por código, nunca por el texto del mensaje.
const (
	CodeValidation       = "VALIDATION"
	CodeOwnerNotFound    = "OWNER_NOT_FOUND"
	CodeDuplicatePatient = "DUPLICATE_PATIENT"
	CodeConfigMissing    = "CONFIG_MISSING"
	CodeUpstreamInvalid  = "UPSTREAM_INVALID"
	CodeNotFound         = "NOT_FOUND"
	CodeServerError      = "SERVER_ERROR"
)

// ErrorBody es el envelope uniforme de error: {success:false, error, code}.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Raw escribe un body ya serializado (passthrough del proxy).
func Raw(w http.ResponseWriter, status int, contentType string, body []byte) {
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func Error(w http.ResponseWriter, status int, code, msg string) {
	JSON(w, status, ErrorBody{Success: false, Error: msg, Code: code})
}

func ServerError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, CodeServerError, "Error del servidor")
}
