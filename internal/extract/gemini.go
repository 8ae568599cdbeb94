package extract

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

// GeminiBackend calls Google Gemini through the genai SDK.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend connects to the Gemini API. An empty baseURL uses the
// public endpoint; httpClient may be nil.
func NewGeminiBackend(ctx context.Context, apiKey, model, baseURL string, httpClient *http.Client) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, eris.Wrap(err, "gemini: connect")
	}
	return &GeminiBackend{client: client, model: model}, nil
}

func (g *GeminiBackend) Name() string { return "gemini" }

func (g *GeminiBackend) Complete(ctx context.Context, p Prompt) (string, error) {
	temp := float32(0)
	config := &genai.GenerateContentConfig{Temperature: &temp}
	if p.System != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: p.System}}}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: p.User}}}},
		config,
	)
	if err != nil {
		return "", eris.Wrap(err, "gemini: generate content")
	}
	if result == nil {
		return "", eris.New("gemini: nil result")
	}
	return result.Text(), nil
}
