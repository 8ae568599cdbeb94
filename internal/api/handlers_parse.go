package api

import (
	"net/http"

	"github.com/dgallion1/pagesift/internal/pipeline"
)

type parseRequest struct {
	Content   string `json:"content"`
	ContentID string `json:"content_id,omitempty"`
	Query     string `json:"query"`
	Model     string `json:"model,omitempty"`
}

type parseResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
	NoMatch bool   `json:"no_match"`
	Backend string `json:"backend,omitempty"`
	Chunks  int    `json:"chunks"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	res, err := s.pipeline.Parse(r.Context(), pipeline.ParseInput{
		Content:   req.Content,
		ContentID: req.ContentID,
		Query:     req.Query,
		Model:     req.Model,
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{
		Success: true,
		Result:  res.Answer,
		NoMatch: res.NoMatch,
		Backend: res.Backend,
		Chunks:  res.Chunks,
	})
}
