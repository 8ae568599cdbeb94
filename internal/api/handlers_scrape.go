package api

import (
	"net/http"

	"github.com/dgallion1/pagesift/internal/pipeline"
)

type scrapeRequest struct {
	URL  string `json:"url"`
	Mode string `json:"mode,omitempty"`
}

type scrapeResponse struct {
	Success       bool   `json:"success"`
	URL           string `json:"url,omitempty"`
	Title         string `json:"title,omitempty"`
	Content       string `json:"content,omitempty"`
	ContentLength int    `json:"content_length,omitempty"`
	ContentID     string `json:"content_id,omitempty"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	res, err := s.pipeline.Scrape(r.Context(), pipeline.ScrapeInput{URL: req.URL, Mode: req.Mode})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scrapeResponse{
		Success:       true,
		URL:           res.URL,
		Title:         res.Title,
		Content:       res.Content,
		ContentLength: res.ContentLength,
		ContentID:     res.ContentID,
	})
}
