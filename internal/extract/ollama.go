package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/dgallion1/pagesift/internal/retry"
)

const DefaultOllamaURL = "http://localhost:11434"

// OllamaBackend calls a local Ollama server's chat endpoint.
type OllamaBackend struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOllamaBackend(baseURL, model string, timeout time.Duration) *OllamaBackend {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaBackend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (o *OllamaBackend) Name() string { return "ollama" }

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error"`
}

func (o *OllamaBackend) Complete(ctx context.Context, p Prompt) (string, error) {
	req := ollamaRequest{
		Model:   o.model,
		Stream:  false,
		Options: map[string]any{"temperature": 0},
	}
	if p.System != "" {
		req.Messages = append(req.Messages, ollamaMessage{Role: "system", Content: p.System})
	}
	req.Messages = append(req.Messages, ollamaMessage{Role: "user", Content: p.User})

	body, err := json.Marshal(req)
	if err != nil {
		return "", eris.Wrap(err, "marshal request")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", eris.Wrap(err, "ollama api")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", eris.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("ollama api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
		if retry.RetryableStatus(resp.StatusCode) {
			return "", retry.Transient(err, resp.StatusCode)
		}
		return "", err
	}

	var out ollamaResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", eris.Wrap(err, "decode response")
	}
	if out.Error != "" {
		return "", eris.Errorf("ollama error: %s", out.Error)
	}
	return out.Message.Content, nil
}

// Close releases idle connections.
func (o *OllamaBackend) Close() {
	o.httpClient.CloseIdleConnections()
}
