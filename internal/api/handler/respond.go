package handler

import (
	"encoding/json"
	"net/http"
)

const (
	contentTypeJSON     = "application/json"
	contentTypeJSONUTF8 = "application/json; charset=utf-8"
)

// Public messages used in place of raw driver errors.
const (
	msgDatabaseUnavailable = "database unavailable"
	msgInternalError       = "internal error"
)

func writeJSON(w http.ResponseWriter, status int, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, contentTypeJSON, v)
}

func respondJSONUTF8(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, contentTypeJSONUTF8, v)
}

// publicDetail picks what a client sees for an internal failure: the raw
// error when exposure is enabled, otherwise the generic fallback.
func publicDetail(err error, expose bool, fallback string) string {
	if expose {
		return err.Error()
	}
	return fallback
}
