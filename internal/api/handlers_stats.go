package api

import (
	"net/http"
)

func (s *Server) handleLLMStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		writeJSON(w, http.StatusServiceUnavailable, failure{Error: "llm stats unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"window":   s.stats.Window().String(),
		"backends": s.stats.Snapshot(),
	})
}
