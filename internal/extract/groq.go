package extract

import (
	"context"
	"errors"
	"net/http"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"

	"github.com/dgallion1/pagesift/internal/retry"
)

// DefaultGroqBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// GroqBackend calls Groq through its OpenAI-compatible chat completions API.
type GroqBackend struct {
	client *openai.Client
	model  string
}

// NewGroqBackend creates a backend for model. An empty baseURL uses Groq's
// public endpoint; httpClient may be nil.
func NewGroqBackend(apiKey, baseURL, model string, httpClient *http.Client) *GroqBackend {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = DefaultGroqBaseURL
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &GroqBackend{client: openai.NewClientWithConfig(cfg), model: model}
}

func (g *GroqBackend) Name() string { return "groq" }

func (g *GroqBackend) Complete(ctx context.Context, p Prompt) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
	})
	if err != nil {
		return "", classifyOpenAI(err)
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("groq: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAI(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	wrapped := eris.Wrap(err, "groq api")
	if retry.RetryableStatus(status) {
		return retry.Transient(wrapped, status)
	}
	return wrapped
}
