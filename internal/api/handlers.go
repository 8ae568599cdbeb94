package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dgallion1/pagesift/internal/apperr"
)

// decodeBody reads a JSON request body bounded by MAX_REQUEST_BYTES. On
// failure it writes a 400 and returns false.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, failure{Error: "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, failure{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeFailure maps a pipeline error onto the response contract.
// Validation problems are the caller's fault and get a 400; upstream
// failures are reported in a 200 body with success=false.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	code, msg := http.StatusOK, ""
	switch kind {
	case apperr.KindValidation:
		code, msg = http.StatusBadRequest, apperr.Message(err)
	case apperr.KindFetch:
		msg = "Failed to scrape website: " + err.Error()
	case apperr.KindEmptyContent:
		msg = "No content found on the website."
	case apperr.KindExtraction:
		msg = "Error parsing content: " + err.Error()
	default:
		code, msg = http.StatusInternalServerError, "internal error"
	}

	level := slog.LevelWarn
	if code >= 500 {
		level = slog.LevelError
	}
	s.log.Log(r.Context(), level, "request failed", "path", r.URL.Path, "kind", string(kind), "error", err)
	writeJSON(w, code, failure{Error: msg})
}
